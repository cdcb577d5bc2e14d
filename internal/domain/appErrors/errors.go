// Package appErrors holds the error taxonomy shared by the pipeline, the stores and the
// http layer. Callers classify with errors.As / the Is* helpers, never by message.
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError is fatal and raised before any work starts.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + strings.Join(e.Problems, "; ")
}

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// UpstreamServiceError wraps a failed call to the embedding service, the generation
// service or the vector index.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Service, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

func NewUpstreamError(service string, err error) error {
	if err == nil {
		return nil
	}
	var existing *UpstreamServiceError
	if errors.As(err, &existing) {
		return err
	}
	return &UpstreamServiceError{Service: service, Err: err}
}

// PersistenceError means the relational store could not complete a step.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *PersistenceError
	if errors.As(err, &existing) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

type NotFoundError struct {
	Entity string
	Id     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Id)
}

func NewNotFound(entity string, id string) error {
	return &NotFoundError{Entity: entity, Id: id}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidation(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamServiceError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// HTTPStatus maps an error to the status code the api answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case IsUpstream(err):
		return http.StatusBadGateway
	case IsPersistence(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
