package service

import (
	"fmt"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
)

// validator collects field errors so a form reports every problem at once.
type validator struct {
	errs []FieldError
}

func (v *validator) add(field, msg string) {
	v.errs = append(v.errs, FieldError{Field: field, Msg: msg})
}

func (v *validator) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, "required")
		return false
	}
	return true
}

func (v *validator) oneOf(field, value string, vocabulary []string) {
	if !model.OneOf(value, vocabulary) {
		v.add(field, fmt.Sprintf("must be one of %s", strings.Join(vocabulary, ", ")))
	}
}

// date checks an optional date; empty passes.
func (v *validator) date(field, value string) {
	if value != "" && !dates.Parse(value).Valid() {
		v.add(field, "must be a date (yyyy-MM-dd)")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.errs}
}
