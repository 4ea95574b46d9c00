// Package readiness combines the academic, alignment and resume scores into
// the unified career readiness index.
package readiness

import "math"

const (
	AcademicWeight  = 0.35
	AlignmentWeight = 0.30
	ResumeWeight    = 0.35

	// ActionThreshold is the score below which a next action is suggested.
	ActionThreshold = 70.0
	// MaxActions caps the number of suggested next actions.
	MaxActions = 3

	// fullStudyHours is the daily study time that counts as full academic strength.
	fullStudyHours = 8.0
)

const (
	ActionAlignment = "Improve subject-career alignment in the study plan."
	ActionResume    = "Add missing skills and project keywords to the resume."
	ActionAcademic  = "Increase consistent daily study time by 1-2 hours."
	ActionMaintain  = "Maintain momentum with mock interviews and projects."
)

// ScoreSet holds the three independent scores, each in [0, 100].
type ScoreSet struct {
	Academic  float64 `json:"academic"`
	Alignment float64 `json:"alignment"`
	Resume    float64 `json:"resume"`
}

// Unified returns the weighted readiness score. It is always derived from the
// current fields and never stored.
func (s ScoreSet) Unified() float64 {
	return AcademicWeight*s.Academic + AlignmentWeight*s.Alignment + ResumeWeight*s.Resume
}

// AcademicFromHours converts a daily study budget into academic strength.
func AcademicFromHours(dailyHours float64) float64 {
	if dailyHours <= 0 {
		return 0
	}

	return math.Min(dailyHours/fullStudyHours*100, 100)
}

// NextActions returns up to MaxActions suggestions, checked in fixed order:
// alignment, resume, academic. When no score is below ActionThreshold a single
// maintenance action is returned.
func NextActions(s ScoreSet) []string {
	actions := make([]string, 0, MaxActions)

	if s.Alignment < ActionThreshold {
		actions = append(actions, ActionAlignment)
	}
	if s.Resume < ActionThreshold {
		actions = append(actions, ActionResume)
	}
	if s.Academic < ActionThreshold {
		actions = append(actions, ActionAcademic)
	}

	if len(actions) == 0 {
		return []string{ActionMaintain}
	}

	if len(actions) > MaxActions {
		actions = actions[:MaxActions]
	}

	return actions
}
