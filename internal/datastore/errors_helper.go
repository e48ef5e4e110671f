// Package datastore provides error handling helpers for database operations
package datastore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tphakala/notes-go/internal/errors"
)

// ErrNoteNotFound is returned by Session methods when no row has the requested id.
var ErrNoteNotFound = errors.NewStd("note not found")

// errNotOpen is returned when a store is used before Open or after Close.
var errNotOpen = errors.NewStd("database connection is not initialized")

// dbError creates a properly categorized database error with context
func dbError(err error, operation, priority string, kv ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	if priority != "" {
		builder = builder.Priority(priority)
	}

	// Add context pairs
	for i := 0; i < len(kv)-1; i += 2 {
		if key, ok := kv[i].(string); ok {
			builder = builder.Context(key, kv[i+1])
		}
	}

	return builder.Build()
}

// notFoundError wraps ErrNoteNotFound so callers can match it with errors.Is.
func notFoundError(operation string, id uint) error {
	return errors.New(fmt.Errorf("%w: id %d", ErrNoteNotFound, id)).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Priority(errors.PriorityLow).
		Context("operation", operation).
		Context("note_id", id).
		Build()
}

// cancelledError keeps request cancellation out of the database category.
func cancelledError(err error, operation string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryCancellation).
		Priority(errors.PriorityLow).
		Context("operation", operation).
		Build()
}

// wrapQueryError classifies a GORM error from the given operation.
func wrapQueryError(err error, operation string, kv ...any) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelledError(err, operation)
	}
	return dbError(err, operation, errors.PriorityMedium, kv...)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNoteNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// categorizeError maps an error to a short label for the errors metric.
func categorizeError(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "locked"), strings.Contains(errStr, "busy"):
		return "locked"
	case strings.Contains(errStr, "constraint"), strings.Contains(errStr, "duplicate"):
		return "constraint"
	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "bad conn"):
		return "connection"
	case strings.Contains(errStr, "no such table"), strings.Contains(errStr, "doesn't exist"):
		return "schema"
	default:
		return "other"
	}
}
