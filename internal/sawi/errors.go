package sawi

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is returned when an operation runs without a session.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrInvalidCredentials is returned by SignIn for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPlantNotFound is returned when the plant does not exist or belongs to another user.
	ErrPlantNotFound = errors.New("plant not found")

	// ErrAlreadyReportedToday is returned when a growth report was already
	// submitted for the plant on the current local date.
	ErrAlreadyReportedToday = errors.New("growth report already submitted today")

	// ErrConcurrentUpdate is returned when a conditional write lost against
	// another write to the same plant.
	ErrConcurrentUpdate = errors.New("plant was modified concurrently")
)

// ValidationError carries field-level messages for rejected form input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// add records the first message for field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// err returns e if any field failed, nil otherwise.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
