package errors

import "errors"

// Wrap wraps an error with additional context, creating a DocketError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *DocketError {
	if err == nil {
		return nil
	}

	var de *DocketError
	if errors.As(err, &de) {
		return &DocketError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       de,
			Context:     de.Context,
			Component:   de.Component,
			FilePath:    de.FilePath,
			Recoverable: de.Recoverable,
		}
	}

	return &DocketError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender,
	}
}

// WrapIO wraps an error as a non-recoverable I/O error.
func WrapIO(err error, code, message string) *DocketError {
	de := Wrap(err, ErrorTypeIO, code, message)
	if de != nil {
		de.Recoverable = false
	}
	return de
}

// WrapRender wraps an error as a render error for the given component.
func WrapRender(err error, message, component string) *DocketError {
	de := Wrap(err, ErrorTypeRender, ErrCodeRenderFailed, message)
	if de != nil {
		de.Component = component
	}
	return de
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, message string) *DocketError {
	de := Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
	if de != nil {
		de.Recoverable = false
	}
	return de
}
