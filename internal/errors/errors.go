// Package errors provides the structured error types used across docket.
//
// Binding misses and unsupported component types are never errors: they
// degrade to empty or fallback output inside the renderer. The types here
// cover the conditions that genuinely reach a caller, such as malformed
// layout files, unknown document types, validation failures and file I/O.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeLayoutParse         = "ERR_LAYOUT_PARSE"
	ErrCodeUnknownDocumentType = "ERR_UNKNOWN_DOCUMENT_TYPE"
	ErrCodeComponentNotFound   = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeValidationFailed    = "ERR_VALIDATION_FAILED"
	ErrCodeRenderFailed        = "ERR_RENDER_FAILED"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound        = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError       = "ERR_INTERNAL"
)

// DocketError is a structured error type with context.
type DocketError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *DocketError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DocketError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *DocketError) Is(target error) bool {
	var t *DocketError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DocketError) WithContext(key string, value interface{}) *DocketError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error relates to.
func (e *DocketError) WithFile(path string) *DocketError {
	e.FilePath = path

	return e
}

// WithComponent adds component context.
func (e *DocketError) WithComponent(id string) *DocketError {
	e.Component = id

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DocketError {
	return &DocketError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *DocketError {
	return &DocketError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *DocketError {
	return &DocketError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewRenderError creates a render error. Render errors are recoverable: the
// next layout change may render fine.
func NewRenderError(code, message string, cause error) *DocketError {
	return &DocketError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *DocketError {
	return &DocketError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var de *DocketError
	if errors.As(err, &de) {
		return de.Recoverable
	}

	return false
}

// IsValidationError checks if an error is validation-related.
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsRenderError checks if an error came from rendering.
func IsRenderError(err error) bool {
	return hasType(err, ErrorTypeRender)
}

func hasType(err error, t ErrorType) bool {
	if de, ok := AsDocketError(err); ok {
		return de.Type == t
	}

	return false
}

// AsDocketError finds the first DocketError in err's chain.
func AsDocketError(err error) (*DocketError, bool) {
	var de *DocketError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ErrLayoutParse creates a layout parse error for the given source.
func ErrLayoutParse(source string, cause error) *DocketError {
	return NewIOError(ErrCodeLayoutParse, "cannot parse layout", cause).WithFile(source)
}

// ErrUnknownDocumentType creates an unknown document type error.
func ErrUnknownDocumentType(name string) *DocketError {
	return NewValidationError(ErrCodeUnknownDocumentType, "unknown document type: "+name)
}

// ErrComponentNotFound creates a component not found error.
func ErrComponentNotFound(id string) *DocketError {
	return NewValidationError(ErrCodeComponentNotFound, "component not found: "+id).WithComponent(id)
}

// ErrFileNotFound creates a missing file error.
func ErrFileNotFound(path string, cause error) *DocketError {
	return NewIOError(ErrCodeFileNotFound, "file not found", cause).WithFile(path)
}
