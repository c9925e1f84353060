package eval

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrNumericDomain = errors.New("numeric domain error")
	ErrMissingInput  = errors.New("missing input")
)

// ShapeMismatchError reports an input vector whose length is neither 1 nor
// the common row count.
type ShapeMismatchError struct {
	Name     string
	Length   int
	Expected int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("input %q has %d values, expected %d or 1", e.Name, e.Length, e.Expected)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// NumericDomainError reports a NaN or infinite result in strict mode.
type NumericDomainError struct {
	Symbol string
	Row    int
	Value  float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("symbol %q evaluates to %v at row %d", e.Symbol, e.Value, e.Row)
}

func (e *NumericDomainError) Is(target error) bool { return target == ErrNumericDomain }

// MissingInputError reports a leaf name with no supplied values.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("no values supplied for input %q", e.Name)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }
