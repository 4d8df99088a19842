package gauge

import (
	"errors"
	"strings"
)

// Normalization problems. None of them stops a render.
var (
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidType   = errors.New("invalid gauge type")
	ErrOutOfBounds   = errors.New("value out of bounds")
	ErrInvalidNumber = errors.New("invalid number")
)

// Issues collects the corrections Normalize applied.
type Issues []error

// Has reports whether any issue matches target.
func (is Issues) Has(target error) bool {
	for _, err := range is {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Err joins the issues into one error, or returns nil when there are none.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	return errors.Join(is...)
}

// Strings returns the messages in order, for JSON responses.
func (is Issues) Strings() []string {
	out := make([]string, 0, len(is))
	for _, err := range is {
		out = append(out, err.Error())
	}
	return out
}

func (is Issues) String() string {
	return strings.Join(is.Strings(), "; ")
}
