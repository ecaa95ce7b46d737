package gh

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups whose target does not exist on GitHub.
var ErrNotFound = errors.New("not found")

// ParseError reports gh output that did not match the expected schema.
// Unrecognized shapes are surfaced, not silently dropped.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected gh output: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
