package izvod

import "fmt"

// FileAccessError is returned when the statement cannot be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("reading statement %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ParseError describes a line whose fixed columns could not be extracted
// or converted.
type ParseError struct {
	Line   int    // 1-based line in the file
	Field  string // column name, e.g. "amount"
	Value  string // offending text, if any
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports a byte the configured code page cannot decode.
type EncodingError struct {
	Line     int
	Column   int // 1-based byte position within the line
	Byte     byte
	CodePage string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("line %d, column %d: byte 0x%02X is not valid %s", e.Line, e.Column, e.Byte, e.CodePage)
}
