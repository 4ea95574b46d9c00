package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/cris/internal/extract"
	"github.com/spigell/cris/internal/pipeline"
	"github.com/spigell/cris/internal/planner"
)

// hasInput reports whether any study plan input was supplied. Daily hours
// alone do not count since they always carry a default.
func (p *PlanConfig) hasInput() bool {
	if p == nil {
		return false
	}

	return len(p.Subjects) > 0 || strings.TrimSpace(p.OtherSubject) != "" || strings.TrimSpace(p.ExamDate) != ""
}

func (p *PlanConfig) toPipeline() (*pipeline.PlanConfig, error) {
	confidence, err := planner.ParseConfidence(p.Confidence)
	if err != nil {
		return nil, err
	}

	var exam time.Time
	if strings.TrimSpace(p.ExamDate) != "" {
		exam, err = planner.ParseExamDate(p.ExamDate)
		if err != nil {
			return nil, err
		}
	}

	return &pipeline.PlanConfig{
		Subjects:   planner.UniqueSubjects(append(append([]string{}, p.Subjects...), p.OtherSubject)...),
		DailyHours: p.DailyHours,
		ExamDate:   exam,
		Confidence: confidence,
	}, nil
}

func (r *ResumeConfig) hasInput() bool {
	if r == nil {
		return false
	}

	return r.Demo || strings.TrimSpace(r.File) != "" || strings.TrimSpace(r.Text) != ""
}

func (r *ResumeConfig) toPipeline() *pipeline.ResumeConfig {
	return &pipeline.ResumeConfig{
		Source: extract.Source{
			Name:  "resume",
			Value: r.Text,
			File:  r.File,
		},
		Demo: r.Demo,
	}
}

// pipelineConfig converts the user config into step input. Sections without
// any input stay nil so the matching steps can be disabled.
func pipelineConfig(config *Config) (*pipeline.Config, error) {
	out := &pipeline.Config{}

	if config.Plan.hasInput() {
		plan, err := config.Plan.toPipeline()
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		out.Plan = plan
	}

	if config.Resume.hasInput() {
		out.Resume = config.Resume.toPipeline()
	}

	return out, nil
}
