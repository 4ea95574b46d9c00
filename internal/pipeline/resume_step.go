package pipeline

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cris/internal/extract"
	"github.com/spigell/cris/internal/logger"
	"github.com/spigell/cris/internal/session"
)

const (
	ResumeStep = "resume"

	// DemoResume is the built-in sample used when no resume is supplied.
	DemoResume = `
Built data pipelines with Python and SQL. Created machine learning models for churn prediction.
Completed analytics dashboard project. Strong in statistics and experimentation.
`

	previewLength = 120
)

type resumeStep struct {
	disabled bool
	reason   string
	config   *ResumeConfig
}

// NewResume creates the step that scores resume text against the target career.
func NewResume() Step {
	return &resumeStep{}
}

func (f *resumeStep) Name() string { return ResumeStep }

func (f *resumeStep) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *resumeStep) IsEnabled() bool { return !f.disabled }

func (f *resumeStep) Validate(cfg *Config) error {
	f.config = nil
	if cfg == nil || cfg.Resume == nil {
		return fmt.Errorf("resume input is required")
	}
	if !cfg.Resume.Demo && cfg.Resume.Source.IsEmpty() {
		return fmt.Errorf("resume text or file is required")
	}

	f.config = cfg.Resume
	return nil
}

func (f *resumeStep) Apply(_ context.Context, deps Deps, s *session.Session) (Outcome, error) {
	profile, err := deps.Catalog.Profile(s.Career)
	if err != nil {
		return Outcome{}, err
	}

	text := f.text(deps)

	deps.Logger.Debug("resume text resolved",
		zap.Int("length", utf8.RuneCountInString(text)),
		zap.String("preview", logger.TruncateForLog(text, previewLength)),
	)

	result := deps.Catalog.Matcher().Score(text, profile.Skills)
	s.RecordResume(result)

	if len(result.Matched) == 0 {
		deps.Logger.Info("no relevant skills found", zap.Strings("skill_gaps", result.Missing))
	}

	return Outcome{
		Score:   result.Score,
		Matched: len(result.Matched),
		Missing: len(result.Missing),
	}, nil
}

// text resolves the resume text. Extraction failures are logged and yield an
// empty text so the session still gets a score.
func (f *resumeStep) text(deps Deps) string {
	if f.config.Demo {
		deps.Logger.Info("using built-in demo resume text")
		return DemoResume
	}

	text, err := extract.Load(f.config.Source)
	if err != nil {
		deps.Logger.Warn("could not read the resume, continuing with empty text",
			zap.String("file", f.config.Source.File),
			zap.Error(err),
		)
		return ""
	}

	return text
}

func (f *resumeStep) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		switch {
		case f.config.Demo:
			details["source"] = "demo"
		case f.config.Source.File != "":
			details["source"] = "file"
			details["file"] = f.config.Source.File
		default:
			details["source"] = "text"
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
