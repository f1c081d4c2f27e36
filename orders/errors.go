/*
errors.go - Centralized error types for the order pipeline

PURPOSE:
  All error types in one place for consistency and discoverability.
  Backends and operations wrap these with fmt.Errorf("...: %w", err).

ERROR CATEGORIES:
  1. Missing prerequisites - template, sheet or orders not found; the run
     aborts before any write
  2. Schema errors - a sheet narrower than its declared schema
  3. Selection errors - bad interactive input

  Parse errors are NOT here: malformed cells degrade to Parsed defaults
  (parse.go). Data-quality findings are NOT errors either (detect.go).

SEE ALSO:
  - schema.go: returns ColumnCountError
  - automation/: returns PrerequisiteError
*/
package orders

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSheetNotFound is returned when a named sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSheetExists is returned when adding a sheet whose name is taken.
	ErrSheetExists = errors.New("sheet already exists")

	// ErrTemplateNotFound is returned when the order template document is missing.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrNoSchoolSheets is returned when no "<school> MASTER" sheet exists yet.
	ErrNoSchoolSheets = errors.New("no school sheets found")

	// ErrNoPickupOrders is returned when a school has nothing to export.
	ErrNoPickupOrders = errors.New("no pick-up orders found")

	// ErrInvalidSelection is returned for an out-of-range or non-numeric choice.
	ErrInvalidSelection = errors.New("invalid choice")

	// ErrFileNotFound is returned by file and document backends for unknown IDs.
	ErrFileNotFound = errors.New("file not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ColumnCountError is returned when a header row is narrower than the schema.
type ColumnCountError struct {
	Sheet string
	Want  int
	Got   int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("sheet %q has %d columns, schema needs %d", e.Sheet, e.Got, e.Want)
}

// PrerequisiteError names the missing thing and wraps the sentinel.
type PrerequisiteError struct {
	Name string
	Err  error
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("%s: '%s'", e.Err, e.Name)
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsMissingPrerequisite returns true if the run aborted before writing anything.
func IsMissingPrerequisite(err error) bool {
	return errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrNoSchoolSheets) ||
		errors.Is(err, ErrNoPickupOrders)
}

// IsSchemaError returns true if the source sheet does not match its schema.
func IsSchemaError(err error) bool {
	var cc *ColumnCountError
	return errors.As(err, &cc)
}
