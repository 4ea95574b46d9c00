// Package planner distributes a daily study budget across subjects according
// to self-reported weakness and exam urgency.
package planner

import (
	"strconv"
)

const (
	// DefaultConfidence is used for subjects without a reported confidence.
	DefaultConfidence = 3
	MinConfidence     = 1
	MaxConfidence     = 5

	MinDailyHours = 1
	MaxDailyHours = 12

	urgentDays = 7
	soonDays   = 21
)

// Entry is one line of a study plan.
type Entry struct {
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
}

// Urgency returns the weakness multiplier for the number of days left before
// the exam: 1.5 within a week, 1.25 within three weeks, 1.0 otherwise.
func Urgency(daysLeft int) float64 {
	switch {
	case daysLeft <= urgentDays:
		return 1.5
	case daysLeft <= soonDays:
		return 1.25
	default:
		return 1.0
	}
}

// Allocate splits dailyHours across subjects proportionally to
// (6 - confidence) * Urgency(daysLeft). Each share is rounded to one decimal,
// so the sum may drift from dailyHours by up to 0.05 per subject; the drift is
// not redistributed. Subjects must be non-empty and daysLeft positive.
func Allocate(subjects []string, dailyHours float64, confidence map[string]int, daysLeft int) []Entry {
	urgency := Urgency(daysLeft)

	weights := make([]float64, len(subjects))
	total := 0.0
	for i, subject := range subjects {
		level, ok := confidence[subject]
		if !ok {
			level = DefaultConfidence
		}
		weights[i] = float64(MaxConfidence+1-level) * urgency
		total += weights[i]
	}

	plan := make([]Entry, 0, len(subjects))
	if total == 0 {
		even := round1(dailyHours / float64(len(subjects)))
		for _, subject := range subjects {
			plan = append(plan, Entry{Subject: subject, Hours: even})
		}
		return plan
	}

	for i, subject := range subjects {
		plan = append(plan, Entry{Subject: subject, Hours: round1(weights[i] / total * dailyHours)})
	}

	return plan
}

// TotalHours sums the hours of a plan.
func TotalHours(plan []Entry) float64 {
	total := 0.0
	for _, entry := range plan {
		total += entry.Hours
	}
	return total
}

// round1 rounds to one decimal place using the exact binary value of v, with
// exact ties going to the even digit: 2.25 becomes 2.2, 0.15 (stored just
// below 0.15) becomes 0.1.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
