package format

import (
	"fmt"
	"strings"
)

// ParseError reports that a matched parser could not decode the source.
type ParseError struct {
	Source string // file path or a short description of inline content
	Format string // name of the parser that attempted the decode
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s as %s: %v", e.Source, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports that no registered parser claimed the
// source. It lists every extension the registry would have accepted.
type UnsupportedFormatError struct {
	Source     string
	Extensions []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no parser supports %s (supported extensions: %s)",
		e.Source, strings.Join(e.Extensions, ", "))
}
