package etl

import (
	"fmt"
	"strings"
)

// FormatError indicates a source filename that does not match the
// retail_DD_MM_YYYY naming contract.
type FormatError struct {
	Filename string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("filename %q doesn't match expected pattern 'retail_DD_MM_YYYY.csv'", e.Filename)
}

// InvalidDateError indicates a filename whose day/month/year triple does not
// form a valid calendar date.
type InvalidDateError struct {
	Day   int
	Month int
	Year  int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date extracted from filename: %02d/%02d/%04d", e.Day, e.Month, e.Year)
}

// NotFoundError indicates a source file path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Path)
}

// ParseError indicates source content that could not be read as tabular data,
// or a value that could not be coerced to its canonical type.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError indicates required or canonical fields missing from a table.
// Missing always names every absent field, not just the first.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// EmptyResultError indicates a transformation that produced zero rows.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "transformation produced no rows"
}

// StoreSchemaError indicates a table whose fields do not match the shape of
// the persisted transactions relation.
type StoreSchemaError struct {
	Got  []string
	Want []string
}

func (e *StoreSchemaError) Error() string {
	return fmt.Sprintf("table fields %v don't match store schema %v", e.Got, e.Want)
}
