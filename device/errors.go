// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "github.com/pkg/errors"

// package errors
var (
	ErrReleased = errors.New("driver context already released")
	ErrNoLoader  = errors.New("vulkan loader not found")
	ErrNoContext = errors.New("driver returned no context")
)

// ContextCreationError is returned by Driver.CreateContext when no
// context could be obtained. Its message is the message of the cause.
type ContextCreationError struct {
	Err error
}

// NewContextCreationError wraps err, a nil err yields nil
func NewContextCreationError(err error) error {
	if err == nil {
		return nil
	}
	return &ContextCreationError{Err: err}
}

func (e *ContextCreationError) Error() string {
	return e.Err.Error()
}

// Cause implements the pkg/errors causer
func (e *ContextCreationError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *ContextCreationError) Unwrap() error {
	return e.Err
}

// IsContextCreation reports whether err, or anything it wraps,
// is a context creation failure
func IsContextCreation(err error) bool {
	var cce *ContextCreationError
	return errors.As(err, &cce)
}

// CollaboratorError is a driver failure after the context was created.
// Op names the step that failed.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Cause implements the pkg/errors causer
func (e *CollaboratorError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
