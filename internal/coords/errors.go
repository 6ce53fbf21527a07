package coords

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinateSource is matched by errors for values that are not coordinates.
	ErrInvalidCoordinateSource = errors.New("invalid coordinate source")
	// ErrMixedSequence is matched by errors for sequences mixing points and sub-sequences.
	ErrMixedSequence = errors.New("mixed sequence of points and non-points")
)

// InvalidSourceError reports a value none of the resolution rules could interpret.
type InvalidSourceError struct {
	Value  any
	Reason string
}

func (e *InvalidSourceError) Error() string {
	if e.Reason != "" && e.Value == nil {
		return fmt.Sprintf("can't guess the latitude and longitude (%s)", e.Reason)
	}
	if e.Reason != "" {
		return fmt.Sprintf("can't guess the latitude and longitude from this value (%s): %#v", e.Reason, e.Value)
	}
	return fmt.Sprintf("can't guess the latitude and longitude from this value: %#v", e.Value)
}

// Is makes the error match ErrInvalidCoordinateSource.
func (e *InvalidSourceError) Is(target error) bool {
	return target == ErrInvalidCoordinateSource
}

// MixedSequenceError reports a sequence holding both points and non-points.
type MixedSequenceError struct {
	Points int
	Others int
}

func (e *MixedSequenceError) Error() string {
	return fmt.Sprintf("sequence mixes %d points with %d nested sequences, a path must hold points only", e.Points, e.Others)
}

// Is makes the error match ErrMixedSequence.
func (e *MixedSequenceError) Is(target error) bool {
	return target == ErrMixedSequence
}
