package graph

import (
	"fmt"
)

// IOError indicates a snapshot read or write failure. It always carries
// the file path involved.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("knowledge graph I/O failed for %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError indicates a malformed persisted snapshot.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed knowledge graph snapshot %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError indicates an unknown export format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// UnsupportedQueryError indicates a query form the engine does not
// accept. Only SELECT queries are evaluated.
type UnsupportedQueryError struct {
	Query string
}

func (e *UnsupportedQueryError) Error() string {
	return "only SELECT queries are supported"
}
