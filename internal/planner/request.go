package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoSubjects      = errors.New("select at least one subject")
	ErrExamNotInFuture = errors.New("exam date must be in the future")
	ErrNoExamDate      = errors.New("exam date is required")
)

var validate = validator.New()

// Request is a study plan request as collected from the user.
type Request struct {
	Subjects   []string       `validate:"dive,required"`
	DailyHours float64        `validate:"min=1,max=12"`
	Confidence map[string]int `validate:"omitempty,dive,min=1,max=5"`
	ExamDate   time.Time
}

// Validate checks the request and returns the number of days left until the
// exam counted from today. Allocate must only be called after Validate
// succeeds.
func (r Request) Validate(today time.Time) (int, error) {
	if len(r.Subjects) == 0 {
		return 0, ErrNoSubjects
	}

	if err := validate.Struct(r); err != nil {
		return 0, fmt.Errorf("invalid study plan request: %w", err)
	}

	if r.ExamDate.IsZero() {
		return 0, ErrNoExamDate
	}

	daysLeft := DaysUntil(r.ExamDate, today)
	if daysLeft <= 0 {
		return 0, ErrExamNotInFuture
	}

	return daysLeft, nil
}

// DaysUntil returns the number of calendar days from today to exam. Clock
// time is ignored.
func DaysUntil(exam, today time.Time) int {
	return int(civilDate(exam).Sub(civilDate(today)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseExamDate parses a YYYY-MM-DD date in the local time zone.
func ParseExamDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrNoExamDate
	}

	date, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse exam date %q: %w", value, err)
	}

	return date, nil
}

// UniqueSubjects trims names, drops blanks and removes duplicates while keeping
// the first occurrence order.
func UniqueSubjects(names ...string) []string {
	seen := make(map[string]struct{}, len(names))
	subjects := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		subjects = append(subjects, name)
	}

	return subjects
}

// ParseConfidence parses "Subject=level" pairs. The last '=' separates the
// subject from its level, so subject names may contain '='.
func ParseConfidence(pairs []string) (map[string]int, error) {
	confidence := make(map[string]int, len(pairs))

	for _, pair := range pairs {
		idx := strings.LastIndex(pair, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("confidence %q: expected Subject=level", pair)
		}

		subject := strings.TrimSpace(pair[:idx])
		if subject == "" {
			return nil, fmt.Errorf("confidence %q: subject is empty", pair)
		}

		level, err := strconv.Atoi(strings.TrimSpace(pair[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("confidence %q: %w", pair, err)
		}

		if level < MinConfidence || level > MaxConfidence {
			return nil, fmt.Errorf("confidence %q: level must be between %d and %d", pair, MinConfidence, MaxConfidence)
		}

		confidence[subject] = level
	}

	return confidence, nil
}
