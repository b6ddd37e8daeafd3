package main

import (
	"errors"
	"fmt"
	"strings"
)

// Messages are sent to clients verbatim.
var (
	ErrUserNotFound       = errors.New("User not Found")
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrPostNotFound       = errors.New("Post not Found")
	ErrForbidden          = errors.New("You are not allowed to edit this post")
	ErrUnexpectedFile     = errors.New("Unexpected field")

	errInternal = errors.New("Internal server error")
)

// ValidationError reports required fields missing from a record.
type ValidationError struct {
	Record string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s required", e.Record, strings.Join(e.Fields, ", "))
}
