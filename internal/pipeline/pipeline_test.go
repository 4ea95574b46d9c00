package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cris/internal/careers"
	"github.com/spigell/cris/internal/extract"
	"github.com/spigell/cris/internal/logger"
	"github.com/spigell/cris/internal/planner"
	"github.com/spigell/cris/internal/session"
	"github.com/spigell/cris/internal/skills"
)

var today = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func newDeps(t *testing.T) (Deps, *observer.ObservedLogs) {
	t.Helper()

	catalog, err := careers.Default()
	require.NoError(t, err)

	core, observed := observer.New(zapcore.DebugLevel)

	return Deps{
		Logger:  zap.New(core),
		Catalog: catalog,
		Now:     func() time.Time { return today },
	}, observed
}

func planConfig() *PlanConfig {
	return &PlanConfig{
		Subjects:   []string{"Python", "Statistics"},
		DailyHours: 6,
		ExamDate:   today.AddDate(0, 0, 5),
		Confidence: map[string]int{"Python": 2, "Statistics": 4},
	}
}

func TestRunAllSteps(t *testing.T) {
	t.Parallel()

	deps, observed := newDeps(t)
	s := session.New("Data Scientist")

	cfg := &Config{
		Plan:   planConfig(),
		Resume: &ResumeConfig{Demo: true},
	}

	err := Run(context.Background(), cfg, deps, []Step{NewStudyPlan(), NewResume()}, s)
	require.NoError(t, err)

	assert.Equal(t, 5, s.DaysLeft)
	assert.Equal(t, []planner.Entry{{Subject: "Python", Hours: 4}, {Subject: "Statistics", Hours: 2}}, s.Plan)
	assert.InDelta(t, 75.0, s.Scores.Academic, 1e-9)
	assert.InDelta(t, 500.0/12, s.Scores.Alignment, 1e-9)
	assert.Equal(t, []string{"machine learning", "data analysis", "sql"}, s.AlignmentGaps)
	assert.Equal(t, 100.0, s.Scores.Resume)
	assert.Empty(t, s.ResumeMissing)

	steps := observed.FilterMessage("evaluation step").All()
	require.Len(t, steps, 2)
	assert.Equal(t, StudyPlanStep, steps[0].ContextMap()["name"])
	assert.Equal(t, ResumeStep, steps[1].ContextMap()["name"])
	assert.Equal(t, s.ID, steps[0].ContextMap()[logger.FieldSession])
	assert.Equal(t, "Data Scientist", steps[0].ContextMap()[logger.FieldCareer])
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Data Scientist")

	plan := planConfig()
	plan.Subjects = nil

	err := Run(context.Background(), &Config{Plan: plan, Resume: &ResumeConfig{Demo: true}}, deps,
		[]Step{NewResume(), NewStudyPlan()}, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, planner.ErrNoSubjects))

	// The resume step comes first but must not have run.
	assert.Zero(t, s.Scores.Resume)
	assert.Empty(t, s.ResumeMissing)
}

func TestRunRejectsPastExam(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Data Scientist")

	plan := planConfig()
	plan.ExamDate = today

	err := Run(context.Background(), &Config{Plan: plan}, deps, []Step{NewStudyPlan()}, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, planner.ErrExamNotInFuture))
	assert.False(t, s.HasPlan())
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	t.Parallel()

	deps, observed := newDeps(t)
	s := session.New("Web Developer")

	steps := []Step{NewStudyPlan(), NewResume()}
	DisableByName(steps, ResumeStep, "no resume supplied")

	err := Run(context.Background(), &Config{Plan: planConfig()}, deps, steps, s)
	require.NoError(t, err)

	assert.True(t, s.HasPlan())
	assert.Zero(t, s.Scores.Resume)
	assert.Len(t, observed.FilterMessage("evaluation step").All(), 1)

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Enabled)
	assert.Equal(t, "Python,Statistics", statuses[0].Details["subjects"])
	assert.Equal(t, "6", statuses[0].Details["daily_hours"])
	assert.Equal(t, "2026-10-20", statuses[0].Details["exam_date"])
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, "no resume supplied", statuses[1].Reason)
}

func TestResumeExtractionFailureDegradesToEmptyText(t *testing.T) {
	t.Parallel()

	deps, observed := newDeps(t)
	s := session.New("Software Engineer")
	s.RecordResume(resumeResultFixture())

	cfg := &Config{Resume: &ResumeConfig{Source: extract.Source{
		File: filepath.Join(t.TempDir(), "missing.pdf"),
	}}}

	err := Run(context.Background(), cfg, deps, []Step{NewResume()}, s)
	require.NoError(t, err)

	assert.Zero(t, s.Scores.Resume)
	assert.Empty(t, s.ResumeMatched)
	assert.Equal(t, []string{"c++", "java", "data structures", "algorithms", "oop"}, s.ResumeMissing)

	assert.Len(t, observed.FilterLevelExact(zapcore.WarnLevel).All(), 1)
	assert.Len(t, observed.FilterMessage("no relevant skills found").All(), 1)
}

func TestResumeInlineText(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Web Developer")

	cfg := &Config{Resume: &ResumeConfig{Source: extract.Source{Value: "Shipped a Next.js storefront styled with Tailwind"}}}
	require.NoError(t, Run(context.Background(), cfg, deps, []Step{NewResume()}, s))

	// "next.js" counts as react, "tailwind" as css and the "js" inside
	// "next.js" counts as javascript.
	assert.Equal(t, []string{"css", "javascript", "react"}, s.ResumeMatched)
	assert.Equal(t, []string{"html", "node"}, s.ResumeMissing)
	assert.InDelta(t, 800.0/13, s.Scores.Resume, 1e-9)
}

func TestResumeStepRequiresInput(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Web Developer")

	err := Run(context.Background(), &Config{Resume: &ResumeConfig{}}, deps, []Step{NewResume()}, s)
	assert.Error(t, err)

	err = Run(context.Background(), &Config{}, deps, []Step{NewResume()}, s)
	assert.Error(t, err)
}

func TestRunUnknownCareer(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Astronaut")

	err := Run(context.Background(), &Config{Resume: &ResumeConfig{Demo: true}}, deps, []Step{NewResume()}, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, careers.ErrUnknownCareer))
}

func TestRunRequiresCatalog(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Config{}, Deps{}, nil, session.New("Data Scientist"))
	assert.Error(t, err)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	deps, _ := newDeps(t)
	s := session.New("Data Scientist")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, &Config{Resume: &ResumeConfig{Demo: true}}, deps, []Step{NewResume()}, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Scores.Resume)
}

func resumeResultFixture() skills.Result {
	return skills.Result{Score: 80, Matched: []string{"java"}}
}
