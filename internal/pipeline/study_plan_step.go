package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cris/internal/planner"
	"github.com/spigell/cris/internal/readiness"
	"github.com/spigell/cris/internal/session"
)

const StudyPlanStep = "study_plan"

type studyPlanStep struct {
	disabled bool
	reason   string
	config   *PlanConfig
}

// NewStudyPlan creates the step that allocates study hours and scores the
// subjects against the target career.
func NewStudyPlan() Step {
	return &studyPlanStep{}
}

func (f *studyPlanStep) Name() string { return StudyPlanStep }

func (f *studyPlanStep) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *studyPlanStep) IsEnabled() bool { return !f.disabled }

func (f *studyPlanStep) Validate(cfg *Config) error {
	f.config = nil
	if cfg == nil || cfg.Plan == nil {
		return fmt.Errorf("study plan input is required")
	}
	if len(cfg.Plan.Subjects) == 0 {
		return planner.ErrNoSubjects
	}
	if cfg.Plan.ExamDate.IsZero() {
		return planner.ErrNoExamDate
	}

	f.config = cfg.Plan
	return nil
}

func (f *studyPlanStep) Apply(_ context.Context, deps Deps, s *session.Session) (Outcome, error) {
	profile, err := deps.Catalog.Profile(s.Career)
	if err != nil {
		return Outcome{}, err
	}

	req := planner.Request{
		Subjects:   f.config.Subjects,
		DailyHours: f.config.DailyHours,
		Confidence: f.config.Confidence,
		ExamDate:   f.config.ExamDate,
	}

	daysLeft, err := req.Validate(deps.now())
	if err != nil {
		return Outcome{}, err
	}

	plan := planner.Allocate(req.Subjects, req.DailyHours, req.Confidence, daysLeft)
	alignment := deps.Catalog.Matcher().Score(strings.Join(req.Subjects, " "), profile.Skills)
	academic := readiness.AcademicFromHours(req.DailyHours)

	s.RecordPlan(session.PlanRecord{
		DaysLeft:  daysLeft,
		Plan:      plan,
		Academic:  academic,
		Alignment: alignment,
	})

	deps.Logger.Debug("study plan generated",
		zap.Int("days_left", daysLeft),
		zap.Float64("urgency", planner.Urgency(daysLeft)),
		zap.Float64("planned_hours", planner.TotalHours(plan)),
		zap.Float64("academic", academic),
		zap.Strings("alignment_gaps", alignment.Missing),
	)

	return Outcome{
		Score:   alignment.Score,
		Matched: len(alignment.Matched),
		Missing: len(alignment.Missing),
	}, nil
}

func (f *studyPlanStep) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["subjects"] = strings.Join(f.config.Subjects, ",")
		details["daily_hours"] = strconv.FormatFloat(f.config.DailyHours, 'f', -1, 64)
		details["exam_date"] = f.config.ExamDate.Format(time.DateOnly)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
