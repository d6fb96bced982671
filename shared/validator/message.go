package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"eqfield":  "{field} must match {param}",
		"gt":       "{field} must be greater than {param}",
		"url":      "{field} must be a valid URL",
		"uuid":     "{field} must be a valid UUID",
		"datetime": "{field} must match the format {param}",
		"timeslot": "{field} must be a time slot like 09:00 AM",

		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not exceed {param} MB",
	}
)

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			if _, ok := messages[valErr.Tag()]; ok {
				return fieldMessage(valErr)
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}

func fieldMessage(valErr val.FieldError) string {
	errStr, ok := messages[valErr.Tag()]
	if !ok {
		return valErr.Error()
	}

	errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())

	return strings.ReplaceAll(errStr, "{param}", valErr.Param())
}
