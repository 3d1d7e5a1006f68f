package exceptions

import (
	"errors"
	"strings"

	"ecg-labeling-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

func FormatFirstValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return constvars.ErrDevInvalidInput
	}

	firstErr := validationErrors[0]
	fieldName := strings.ToLower(firstErr.Field())
	tag := firstErr.Tag()
	customMessage, ok := constvars.CustomValidationErrorMessages[tag]
	if !ok {
		customMessage = "is invalid"
	}
	if strings.Contains(customMessage, "%s") {
		customMessage = strings.Replace(customMessage, "%s", firstErr.Param(), 1)
	}
	return fieldName + " " + customMessage
}
