// Package qualerr carries the engine's internal-consistency failures.
// These are never user-program errors: by the time the engine runs, the
// host has already rejected malformed input, so every Failure is a bug in
// the engine or in the driver feeding it. Drivers collect them and abort
// the current analysis unit.
package qualerr

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrCode int

const (
	Internal ErrCode = iota
	// ShapeViolation: an operation received a type kind it is not defined for.
	ShapeViolation
	// CardinalityViolation: argument or bound lists disagree in length where
	// they are required to match.
	CardinalityViolation
	// MissingQualifier: a concrete (non-variable) type lacks a qualifier in
	// a recognized hierarchy.
	MissingQualifier
)

func (c ErrCode) String() string {
	switch c {
	case ShapeViolation:
		return "shape"
	case CardinalityViolation:
		return "cardinality"
	case MissingQualifier:
		return "missing-qualifier"
	default:
		return "internal"
	}
}

// Failure is a fatal diagnostic-carrying failure. The wrapped error holds
// the stack captured where the inconsistency was detected.
type Failure struct {
	code ErrCode
	err  error
}

func New(code ErrCode, format string, args ...any) *Failure {
	return &Failure{
		code: code,
		err:  errors.Errorf(format, args...),
	}
}

func (f *Failure) Code() ErrCode { return f.code }

func (f *Failure) Error() string {
	return fmt.Sprintf("(Q%03d %s) %v", int(f.code), f.code, f.err)
}

// Format prints the captured stack under %+v.
func (f *Failure) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "(Q%03d %s) %+v", int(f.code), f.code, f.err)
		return
	}
	fmt.Fprint(s, f.Error())
}

func (f *Failure) Unwrap() error { return f.err }

// CodeOf returns the ErrCode of err if it is a Failure.
func CodeOf(err error) (ErrCode, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.code, true
	}
	return Internal, false
}
