package dataset

import "fmt"

// SourceUnavailableError reports a source that could not be downloaded.
// Loading stops on the first one; no partial data is returned.
type SourceUnavailableError struct {
	Source string
	URL    string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable (%s): %v", e.Source, e.URL, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SchemaError reports a required column missing from a source header.
type SchemaError struct {
	Source string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s is missing required column %q", e.Source, e.Column)
}

// ParseError reports a cell that could not be decoded. Line is 1-based and
// counts the header.
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("source %s line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("source %s line %d column %s: invalid value %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
