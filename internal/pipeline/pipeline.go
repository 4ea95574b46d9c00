// Package pipeline runs the readiness evaluation steps against a session.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cris/internal/careers"
	"github.com/spigell/cris/internal/extract"
	"github.com/spigell/cris/internal/logger"
	"github.com/spigell/cris/internal/session"
)

// Step represents a single evaluation step applied to a session.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, s *session.Session) (Outcome, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger  *zap.Logger
	Catalog *careers.Catalog
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Outcome describes the result of executing a step.
type Outcome struct {
	Score   float64
	Matched int
	Missing int
}

// Config contains the user input consumed by the steps.
type Config struct {
	Plan   *PlanConfig
	Resume *ResumeConfig
}

// PlanConfig is the study planner input.
type PlanConfig struct {
	Subjects   []string
	DailyHours float64
	ExamDate   time.Time
	Confidence map[string]int
}

// ResumeConfig is the resume analyzer input.
type ResumeConfig struct {
	Source extract.Source
	// Demo selects the built-in sample resume instead of Source.
	Demo bool
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by steps that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Step, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled step and then applies them in order. Results
// are assigned into s by the steps themselves.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Step, s *session.Session) error {
	if deps.Catalog == nil {
		return fmt.Errorf("career catalog is required")
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	deps.Logger = logger.WithSessionFields(deps.Logger, s.ID, s.Career)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !step.IsEnabled() {
			deps.Logger.Debug("step disabled", zap.String("name", step.Name()))
			continue
		}

		info, err := step.Apply(ctx, deps, s)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("evaluation step",
			zap.String("name", step.Name()),
			zap.Float64("score", info.Score),
			zap.Int("matched", info.Matched),
			zap.Int("missing", info.Missing),
		)
	}

	deps.Logger.Debug("evaluation finished", zap.Float64("unified", s.Unified()))

	return nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
