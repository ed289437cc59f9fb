package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/aimerkz/yatube/internal/storage"
)

var (
	// ErrNotFound is returned for unknown posts, users and groups.
	ErrNotFound = storage.ErrNotFound
	// ErrLoginRequired is returned when a guest attempts a write.
	ErrLoginRequired = errors.New("login required")
	// ErrPermissionDenied is returned when a non-author edits a post.
	// The post is left unchanged.
	ErrPermissionDenied = errors.New("only the author can edit this post")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("you cannot follow yourself")
	// ErrAlreadyFollowing is returned for a repeated follow.
	ErrAlreadyFollowing = errors.New("already following this author")
)

// Field error messages shown next to form inputs.
const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// ValidationError carries per-field messages for a rejected form.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e if any field failed, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FieldErrors extracts field messages from err, or nil.
func FieldErrors(err error) map[string]string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
