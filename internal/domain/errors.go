package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("access unauthorized")
	ErrForbidden          = errors.New("access unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfLike           = errors.New("cannot like own message")
)

// ErrAlreadyFollowing is returned for a duplicate follow edge.
var ErrAlreadyFollowing = &UniqueViolationError{Field: "follow"}

// ValidationError names the offending field so the caller can re-present the form.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UniqueViolationError reports a uniqueness conflict on Field (username, email, follow, like).
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	if e.Field == "follow" {
		return "already following"
	}
	return e.Field + " already taken"
}

func (e *UniqueViolationError) Is(target error) bool { return target == ErrDuplicate }
