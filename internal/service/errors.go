package service

import (
	"errors"
	"strings"
)

var (
	ErrCheckInNotFound = errors.New("check-in session not found")
	ErrNegativeCopay   = errors.New("copay amount must not be negative")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
