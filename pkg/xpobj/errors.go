package xpobj

import (
	"errors"
	"fmt"
)

// Parse errors. Record-level errors are collected as diagnostics and the
// parse continues; ErrResource aborts the parse.
var (
	ErrMalformedRecord            = errors.New("malformed record")
	ErrRange                      = errors.New("index range out of bounds")
	ErrConflictingGlobalAttribute = errors.New("conflicting global attribute")
	ErrResource                   = errors.New("input unavailable")
	ErrIntegrityMismatch          = errors.New("point count mismatch")
	ErrUnbalancedAnim             = errors.New("unbalanced animation block")
	ErrUnsupportedTarget          = errors.New("record not valid for current object")
)

// Diagnostic is a recovered problem found while parsing.
type Diagnostic struct {
	Line int    // 1-based source line, 0 for end-of-file checks
	Tag  string // record tag, empty for end-of-file checks
	Err  error
}

func (d Diagnostic) Error() string {
	if d.Line == 0 {
		return d.Err.Error()
	}
	return fmt.Sprintf("line %d: %s: %v", d.Line, d.Tag, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// malformed builds an ErrMalformedRecord with the expected layout of a record.
func malformed(want string, fields []string) error {
	return fmt.Errorf("%w: expected %q, got %d fields", ErrMalformedRecord, want, len(fields))
}
