package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is matched by every input validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports which input violated its constraint.
type InvalidArgumentError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) true for any InvalidArgumentError.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// validateLatLon checks the engine's input domain: finite latitude within
// [-90, 90] and any finite longitude.
func validateLatLon(lat, lon float64) error {
	switch {
	case math.IsNaN(lat) || math.IsInf(lat, 0):
		return &InvalidArgumentError{Param: "lat", Value: lat, Reason: "must be finite"}
	case lat < -90 || lat > 90:
		return &InvalidArgumentError{Param: "lat", Value: lat, Reason: "must be within [-90, 90]"}
	case math.IsNaN(lon) || math.IsInf(lon, 0):
		return &InvalidArgumentError{Param: "lon", Value: lon, Reason: "must be finite"}
	}
	return nil
}
