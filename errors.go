package main

import (
	"errors"
	"fmt"
)

// ErrMissingPrerequisite is returned when a meal plan is requested for a
// patient whose anamnesis lacks a goal or any activity indicator.
var ErrMissingPrerequisite = errors.New("missing prerequisite")

// missingPrerequisiteError names the field that blocked composition.
type missingPrerequisiteError struct {
	Field string
}

func (e *missingPrerequisiteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingPrerequisite, e.Field)
}

func (e *missingPrerequisiteError) Unwrap() error {
	return ErrMissingPrerequisite
}
