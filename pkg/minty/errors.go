package minty

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when no transactions remain after
	// filtering; aggregation and reconciliation have no defined output.
	ErrEmptyDataset = errors.New("no transactions in range")

	// ErrMappingIncomplete is returned when the category mapping table
	// lacks the required "Uncategorized" entry.
	ErrMappingIncomplete = errors.New(`category mapping has no "Uncategorized" entry`)

	// ErrNoSource is returned when a client is built without a source.
	ErrNoSource = errors.New("no transaction source configured")

	// ErrNoMapping is returned when a client is built without a
	// category mapping loader.
	ErrNoMapping = errors.New("no category mapping loader configured")

	// ErrNoRenderer is returned when a run needs a renderer and none
	// is configured.
	ErrNoRenderer = errors.New("no report renderer configured")

	// ErrNoSender is returned when a run needs a sender and none is
	// configured.
	ErrNoSender = errors.New("no report sender configured")
)

// CategoryMappingError indicates a sub-category that cannot be
// resolved to a parent category. The mapping table is incomplete and
// the run must abort rather than produce a report with gaps.
type CategoryMappingError struct {
	SubCategory string
}

// Error implements the error interface
func (e *CategoryMappingError) Error() string {
	return fmt.Sprintf("no parent category mapped for sub-category %q", e.SubCategory)
}

// Is checks if the error matches target
func (e *CategoryMappingError) Is(target error) bool {
	t, ok := target.(*CategoryMappingError)
	if !ok {
		return false
	}
	return t.SubCategory == "" || t.SubCategory == e.SubCategory
}

// SourceError indicates the aggregation source was unreachable or
// returned a response the client could not use.
type SourceError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("source %s failed with status %d", e.Op, e.StatusCode)
}

// Unwrap returns the wrapped error
func (e *SourceError) Unwrap() error {
	return e.Err
}
