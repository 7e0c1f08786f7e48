package mods

import (
	"errors"
	"fmt"
)

// MinIDLength is the shortest accepted mod identifier.
const MinIDLength = 3

var (
	ErrInvalidID       = errors.New("invalid mod identifier")
	ErrInvalidPriority = errors.New("mod loading priority must be positive")
	ErrDuplicateMod    = errors.New("a mod with this identifier is already installed")
)

func ValidateID(id string) error {
	if len(id) < MinIDLength {
		return fmt.Errorf("%w: '%s' is shorter than %d characters", ErrInvalidID, id, MinIDLength)
	}
	if c := id[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return fmt.Errorf("%w: '%s' must start with a letter", ErrInvalidID, id)
	}
	return nil
}

func ValidatePriority(priority int) error {
	if priority <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	return nil
}
