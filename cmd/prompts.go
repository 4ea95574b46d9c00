package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/spigell/cris/internal/planner"
)

const (
	PromptOtherSubject = "Add other subject"
	PromptDone         = "Done"
	PromptBack         = "back"
)

func selectOne(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}

	_, selected, err := prompt.Run()
	return selected, err
}

func promptText(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  validate,
	}

	value, err := prompt.Run()
	return strings.TrimSpace(value), err
}

func promptInt(label string, def, min, max int) (int, error) {
	validate := func(input string) error {
		v, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if v < min || v > max {
			return fmt.Errorf("enter a number between %d and %d", min, max)
		}
		return nil
	}

	value, err := promptText(label, strconv.Itoa(def), validate)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(value)
}

func promptDate(label string, def time.Time) (time.Time, error) {
	validate := func(input string) error {
		_, err := planner.ParseExamDate(input)
		return err
	}

	value, err := promptText(label, def.Format(time.DateOnly), validate)
	if err != nil {
		return time.Time{}, err
	}

	return planner.ParseExamDate(value)
}

// promptSubjects lets the user pick predefined subjects one by one and add
// custom ones until Done is selected.
func promptSubjects(predefined []string) ([]string, error) {
	selected := make([]string, 0, len(predefined))

	for {
		items := make([]string, 0, len(predefined)+2)
		for _, subject := range predefined {
			if !slices.Contains(selected, subject) {
				items = append(items, subject)
			}
		}
		items = append(items, PromptOtherSubject, PromptDone)

		label := fmt.Sprintf("Select subjects (selected: %s)", strings.Join(selected, ", "))
		if len(selected) == 0 {
			label = "Select subjects"
		}

		choice, err := selectOne(label, items)
		if err != nil {
			return nil, err
		}

		switch choice {
		case PromptDone:
			return planner.UniqueSubjects(selected...), nil
		case PromptOtherSubject:
			other, err := promptText("Other subject", "", nil)
			if err != nil {
				return nil, err
			}
			selected = append(selected, other)
		default:
			selected = append(selected, choice)
		}
	}
}

func interrupted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort)
}
