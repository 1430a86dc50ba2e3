package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any error reporting a missing record.
var ErrNotFound = errors.New("not found")

// CustomError carries an HTTP status, a message and an error key.
// Entity names the resource the error refers to, if any.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Entity  string `json:"entityName,omitempty"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Is reports not-found errors as ErrNotFound so callers can use errors.Is.
func (e *CustomError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// NewNotFoundError reports that an entity does not resolve.
func NewNotFoundError(entity, message string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: message,
		Type:    "notfound",
		Entity:  entity,
	}
}

// NewValidationError reports a rejected request, key is the error key (idexists, idnull, ...).
func NewValidationError(entity, message, key string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
		Type:    key,
		Entity:  entity,
	}
}

// NewForbiddenError reports a missing or invalid session.
func NewForbiddenError(message, key string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: message,
		Type:    key,
	}
}

// IsValidation reports whether err is a 400 CustomError.
func IsValidation(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == http.StatusBadRequest
}
