package utils

import (
	"github.com/go-playground/validator/v10"

	"petnotes/model"
)

// Validate is the shared validator for dto structs. It is ready at import
// time so library callers never need a bootstrap call.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterCustomValidators(v)
	return v
}

// InitValidator rebuilds the shared validator. main calls this on startup to
// match the rest of the Init* bootstrap sequence.
func InitValidator() {
	Validate = newValidator()
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("category", ValidateCategoryRule)
	v.RegisterValidation("taskstatus", ValidateTaskStatusRule)
}

// ValidateCategoryRule accepts only the category keys the reward table knows.
func ValidateCategoryRule(fl validator.FieldLevel) bool {
	return model.TaskCategory(fl.Field().String()).Valid()
}

func ValidateTaskStatusRule(fl validator.FieldLevel) bool {
	return model.TaskStatus(fl.Field().String()).Valid()
}
