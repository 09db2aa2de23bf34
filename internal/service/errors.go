package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the service layer. Handlers translate these to HTTP
// status codes; services never touch the HTTP surface.
var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyAdded       = errors.New("recipe already added")
	ErrNotPresent         = errors.New("recipe not present")
	ErrDuplicateRecipe    = errors.New("you already added a recipe with this name")
	ErrSelfSubscribe      = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed  = errors.New("already subscribed to this author")
	ErrNotSubscribed      = errors.New("not subscribed to this author")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field-keyed messages for a malformed payload.
// All validation happens before any mutating call.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}
