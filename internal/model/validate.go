package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidateCategoryName rejects empty or whitespace-only category names.
func ValidateCategoryName(name string) error {
	if err := criterio.Run("name", name, requiredText); err != nil {
		return &ValidationError{Field: "name", Msg: "name is required", Err: err}
	}
	return nil
}

// ValidateTaskMeta checks the editable task fields. A missing category is
// reported on its own; the remaining field problems are aggregated.
func ValidateTaskMeta(m TaskMeta) error {
	if strings.TrimSpace(m.CategoryID) == "" {
		return Invalid("category", "no category selected")
	}

	var errs criterio.FieldErrorsBuilder
	if err := requiredText(m.Title); err != nil {
		errs = errs.Append("title", err)
	}
	if m.Priority < PriorityLowest || m.Priority > PriorityHighest {
		errs = errs.Append("priority",
			fmt.Errorf("must be between %d and %d, got %d", PriorityLowest, PriorityHighest, m.Priority))
	}
	if err := ValidateDeadline(m.Deadline); err != nil {
		errs = errs.Append("deadline", err)
	}

	if err := errs.ToError(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidateDeadline accepts an empty string or a YYYY-MM-DD date.
func ValidateDeadline(s string) error {
	if s == "" {
		return nil
	}
	if _, err := ParseDeadline(s); err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return nil
}

// ValidateItemLabels rejects blank labels and duplicate ids in an edited
// item list. Items with id 0 are new and are numbered by the caller.
func ValidateItemLabels(items []ChecklistItem) error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[int]bool, len(items))
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if err := requiredText(it.Label); err != nil {
			errs = errs.Append(field+".label", err)
		}
		if it.ID < 0 {
			errs = errs.Append(field+".id", fmt.Errorf("negative id %d", it.ID))
		}
		if it.ID > 0 {
			if seen[it.ID] {
				errs = errs.Append(field+".id", fmt.Errorf("duplicate id %d", it.ID))
			}
			seen[it.ID] = true
		}
	}
	if err := errs.ToError(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func requiredText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}
