package errors

import (
	"fmt"
	"strings"
)

// FieldValidationError describes a single invalid field of a layout or config.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// Field returns the field name that failed validation.
func (fve *FieldValidationError) Field() string {
	return fve.FieldName
}

// Suggestions returns helpful suggestions for fixing the error.
func (fve *FieldValidationError) Suggestions() []string {
	return fve.HelpText
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []*FieldValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	if len(vec.Errors) == 0 {
		return "no validation errors"
	}
	if len(vec.Errors) == 1 {
		return vec.Errors[0].Error()
	}

	return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) {
	vec.Errors = append(vec.Errors, NewFieldValidationError(field, value, message, suggestions...))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// ToDocketError converts the collection to a DocketError, or nil when empty.
func (vec *ValidationErrorCollection) ToDocketError() *DocketError {
	if !vec.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(vec.Errors))
	context := make(map[string]interface{}, len(vec.Errors))
	for _, err := range vec.Errors {
		messages = append(messages, err.Error())
		context[err.Field()] = map[string]interface{}{
			"value":       err.FieldValue,
			"suggestions": err.Suggestions(),
		}
	}

	return &DocketError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeValidationFailed,
		Message:     strings.Join(messages, "; "),
		Context:     context,
		Recoverable: true,
	}
}
