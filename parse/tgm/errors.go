package tgm

import (
	"errors"
	"fmt"
)

var (
	// ErrNumericConversion matches every *NumericError via errors.Is.
	ErrNumericConversion = errors.New("numeric conversion")
	// ErrArityMismatch matches every *ArityError via errors.Is.
	ErrArityMismatch = errors.New("arity mismatch")
)

// ParseError is returned for the first fatal problem in a file. It names the
// offending line and directive.
type ParseError struct {
	Line    int
	Section string
	Key     string
	Value   string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tgm:%d: [%s] %s=%s: %v", e.Line, e.Section, e.Key, e.Value, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// NumericError is a token that does not parse as its declared type.
type NumericError struct {
	Token string
	Type  string
	Err   error
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s", e.Token, e.Type)
}

func (e *NumericError) Unwrap() error { return e.Err }

func (e *NumericError) Is(target error) bool { return target == ErrNumericConversion }

// ArityError is a fixed-arity compound literal with the wrong token count.
type ArityError struct {
	What string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s needs %d values, got %d", e.What, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == ErrArityMismatch }
