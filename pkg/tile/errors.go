package tile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChecksum indicates the line has no "*HH" trailer.
	ErrNoChecksum = errors.New("no checksum")
)

// ParseError reports a numeric field that failed to parse.
type ParseError struct {
	Leader string
	Field  string
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s field %q: %v", e.Leader, e.Field, e.Err)
}

// Unwrap returns the underlying strconv error.
func (e *ParseError) Unwrap() error { return e.Err }

// ChecksumError reports a mismatched inbound checksum.
type ChecksumError struct {
	Received byte
	Actual   byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch received=%02X actual=%02X", e.Received, e.Actual)
}
