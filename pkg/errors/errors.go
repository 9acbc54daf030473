package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// ErrAuthRequired means the caller has no usable backend session and must log in
type ErrAuthRequired struct {
	Message string
}

func (e *ErrAuthRequired) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return e.Message
}

// ErrForbidden means the session is valid but lacks the role, e.g. admin
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message == "" {
		return "access denied"
	}
	return e.Message
}

// ErrNotFound is returned when the backend has no such resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation carries field-scoped messages for the checkout form
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// ErrBackendRejected is a non-2xx answer from the storefront backend
type ErrBackendRejected struct {
	Status int
	Body   string
}

func (e *ErrBackendRejected) Error() string {
	return fmt.Sprintf("backend API error: status %d, body: %s", e.Status, e.Body)
}

// ErrInvalidStateTransition is returned when the submission state machine refuses a move
type ErrInvalidStateTransition struct {
	From domain.SubmissionState
	To   domain.SubmissionState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrSubmissionInProgress is returned for a submit that arrives while another is in flight
var ErrSubmissionInProgress = fmt.Errorf("order submission already in progress")
