package main

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators adds the domain tags used in request binding tags:
// activity_level, goal and sex.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	for tag, fn := range map[string]validator.Func{
		"activity_level": validateActivityLevel,
		"goal":           validateGoal,
		"sex":            validateSex,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validateActivityLevel(fl validator.FieldLevel) bool {
	_, ok := normalizeActivityLevel(fl.Field().String())
	return ok
}

func validateGoal(fl validator.FieldLevel) bool {
	_, ok := parseGoal(fl.Field().String())
	return ok
}

func validateSex(fl validator.FieldLevel) bool {
	return normalizeSex(fl.Field().String()) != ""
}
