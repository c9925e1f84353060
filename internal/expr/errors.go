package expr

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrMissingParameter = errors.New("missing parameter")
	ErrPlaceholderRange = errors.New("placeholder out of range")
	ErrUnresolved       = errors.New("unresolved reference")
)

// SyntaxError reports malformed template text.
type SyntaxError struct {
	Pos     int    // byte offset into the source text
	Token   string // offending token, empty at end of input
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("syntax error at offset %d near %q: %s", e.Pos, e.Token, e.Message)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// MissingParameterError reports a parameter reference that has no value,
// either because the group was never supplied or because the index falls
// outside the vector.
type MissingParameterError struct {
	Group string
	Index int
	Size  int // length of the group, -1 when the group is absent
}

func (e *MissingParameterError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("missing parameter %s[%d]: no parameter vector named %q", e.Group, e.Index, e.Group)
	}
	return fmt.Sprintf("missing parameter %s[%d]: vector %q has %d values", e.Group, e.Index, e.Group, e.Size)
}

func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// PlaceholderRangeError reports a #i placeholder outside 1..Size.
type PlaceholderRangeError struct {
	Index int
	Size  int
}

func (e *PlaceholderRangeError) Error() string {
	return fmt.Sprintf("placeholder #%d out of range: valid range is 1..%d", e.Index, e.Size)
}

func (e *PlaceholderRangeError) Is(target error) bool { return target == ErrPlaceholderRange }

// UnresolvedError reports a node that should have been substituted away
// before evaluation or rendering.
type UnresolvedError struct {
	Node   string
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved %s: %s", e.Node, e.Reason)
}

func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }
