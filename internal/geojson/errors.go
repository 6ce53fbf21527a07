package geojson

import (
	"errors"
	"fmt"
)

// ErrMalformedGeoJSON is matched by errors for objects the walker cannot interpret.
var ErrMalformedGeoJSON = errors.New("malformed geojson")

// MalformedError reports a GeoJSON object missing required members.
type MalformedError struct {
	Value  any
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("the provided geojson seems to contain invalid data (%s): %#v", e.Reason, e.Value)
}

// Is makes the error match ErrMalformedGeoJSON.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedGeoJSON
}
