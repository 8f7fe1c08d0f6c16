package metar

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the raw text contains no report tokens.
var ErrEmptyInput = errors.New("metar: no report tokens in input")

// ErrInvalidStation is the sentinel matched by InvalidStationError.
var ErrInvalidStation = errors.New("metar: invalid station identifier")

// InvalidStationError reports a leading token that is neither a 4-character
// alphanumeric station identifier nor a recognisable report group.
type InvalidStationError struct {
	Token string
}

func (e *InvalidStationError) Error() string {
	return fmt.Sprintf("metar: invalid station identifier %q: must be 4 alphanumeric characters", e.Token)
}

func (e *InvalidStationError) Is(target error) bool {
	return target == ErrInvalidStation
}

// FieldWarning records a token that looked like a group but failed
// validation. The group is treated as absent and decoding continues.
type FieldWarning struct {
	Group  string `json:"group"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

func (w FieldWarning) String() string {
	return fmt.Sprintf("%s %q: %s", w.Group, w.Token, w.Reason)
}
