package service

import (
	"fmt"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

// fieldSetter coerces an untyped patch value and assigns it to a task field.
type fieldSetter func(t *model.Task, v any) error

func stringField(assign func(t *model.Task, s string)) fieldSetter {
	return func(t *model.Task, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want string, got %T", errs.ErrTypeMismatch, v)
		}
		assign(t, s)
		return nil
	}
}

// patchableFields is the allow-list of task attributes reachable through a
// patch. id and comments are deliberately absent.
var patchableFields = map[string]fieldSetter{
	"title":       stringField(func(t *model.Task, s string) { t.Title = s }),
	"description": stringField(func(t *model.Task, s string) { t.Description = s }),
	"author":      stringField(func(t *model.Task, s string) { t.Author = s }),
	"performer":   stringField(func(t *model.Task, s string) { t.Performer = s }),
	"status": func(t *model.Task, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want status name, got %T", errs.ErrTypeMismatch, v)
		}
		st, err := model.ParseTaskStatus(s)
		if err != nil {
			return err
		}
		t.Status = st
		return nil
	},
	"priority": func(t *model.Task, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want priority name, got %T", errs.ErrTypeMismatch, v)
		}
		pr, err := model.ParseTaskPriority(s)
		if err != nil {
			return err
		}
		t.Priority = pr
		return nil
	},
}

// ApplyPatch applies a sparse field-name -> value mapping onto t. The whole
// mapping is applied to a scratch copy first, so any unknown field, enum
// mismatch or type mismatch leaves t untouched. Errors carry the offending
// field name.
func ApplyPatch(t *model.Task, fields map[string]any) error {
	scratch := *t
	for name, v := range fields {
		set, ok := patchableFields[name]
		if !ok {
			return fmt.Errorf("field %q: %w", name, errs.ErrUnknownField)
		}
		if err := set(&scratch, v); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	*t = scratch
	return nil
}
