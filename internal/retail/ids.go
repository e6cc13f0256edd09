package retail

import (
	"errors"
	"fmt"
	"regexp"
)

// IDPattern matches identifiers that are safe to interpolate into resource names.
var IDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ErrInvalidID is returned for identifiers that do not match IDPattern.
var ErrInvalidID = errors.New("invalid id")

// ValidateID checks that id is non-empty, at most 128 characters, and
// matches IDPattern.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > 128 {
		return fmt.Errorf("%w: too long: %d characters", ErrInvalidID, len(id))
	}
	if !IDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q contains unsafe characters", ErrInvalidID, id)
	}
	return nil
}
