package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat matches UnsupportedFormatError via errors.Is.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse matches ParseError via errors.Is.
	ErrParse = errors.New("malformed table")
)

// UnsupportedFormatError indicates the filename extension has no parser.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported file format for %q: use .csv or .xlsx files", e.Filename)
	}
	return fmt.Sprintf("unsupported file format %q: use .csv or .xlsx files", e.Ext)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// ParseError indicates the bytes did not decode as a table in the indicated format.
type ParseError struct {
	Filename string
	Format   string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Format, e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
