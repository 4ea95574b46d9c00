// Package session holds the state of one interactive readiness session.
//
// A Session is owned by exactly one caller. Pipeline steps compute new values
// with pure functions and assign them through the Record methods; nothing else
// mutates it.
package session

import (
	"github.com/google/uuid"

	"github.com/spigell/cris/internal/planner"
	"github.com/spigell/cris/internal/readiness"
	"github.com/spigell/cris/internal/skills"
)

type Session struct {
	ID     string
	Career string
	Scores readiness.ScoreSet

	// DaysLeft is zero until a plan has been generated.
	DaysLeft      int
	Plan          []planner.Entry
	AlignmentGaps []string

	ResumeMatched []string
	ResumeMissing []string

	LastReport string
}

// PlanRecord is everything a study plan run produces.
type PlanRecord struct {
	DaysLeft  int
	Plan      []planner.Entry
	Academic  float64
	Alignment skills.Result
}

func New(career string) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Career: career,
	}
}

// SetCareer switches the target career. Existing scores are kept until the
// next plan or resume run recomputes them.
func (s *Session) SetCareer(career string) {
	s.Career = career
}

func (s *Session) RecordPlan(r PlanRecord) {
	s.DaysLeft = r.DaysLeft
	s.Plan = r.Plan
	s.Scores.Academic = r.Academic
	s.Scores.Alignment = r.Alignment.Score
	s.AlignmentGaps = r.Alignment.Missing
}

func (s *Session) RecordResume(r skills.Result) {
	s.Scores.Resume = r.Score
	s.ResumeMatched = r.Matched
	s.ResumeMissing = r.Missing
}

func (s *Session) SetReport(report string) {
	s.LastReport = report
}

// Unified derives the readiness index from the current scores.
func (s *Session) Unified() float64 {
	return s.Scores.Unified()
}

// HasPlan reports whether a study plan has been generated.
func (s *Session) HasPlan() bool {
	return len(s.Plan) > 0
}
