package merge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTableNotFound marks a dataset or configuration sheet that does not
	// exist in the workbook.
	ErrTableNotFound = errors.New("table not found")

	// ErrInvalidDestination marks a destination reference that does not
	// resolve to a usable folder.
	ErrInvalidDestination = errors.New("invalid destination reference")
)

// MissingColumnsError is the pre-flight failure raised when the dataset's
// header row does not expose all required output columns. The whole run
// aborts before any row is touched.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required output columns not found in header row: %s", strings.Join(e.Missing, ", "))
}

// RenderError is a per-row failure. It is caught at row granularity, written
// into the row's status cell, and never aborts the run.
type RenderError struct {
	Row int
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Detail returns the underlying failure text for the status cell.
func (e *RenderError) Detail() string { return e.Err.Error() }
