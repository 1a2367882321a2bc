package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when a call carries no owner identity. Nothing is written.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when a record does not exist or belongs to another owner
	ErrNotFound = errors.New("not found")
	// ErrInvalidParent is returned when a parent reference crosses a chapter or subject boundary
	ErrInvalidParent = errors.New("invalid parent")
	// ErrInvalidInput is returned for values that fail validation
	ErrInvalidInput = errors.New("invalid input")
)

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}
