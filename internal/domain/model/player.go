package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGender is returned when a value is not one of the known categories.
var ErrInvalidGender = errors.New("invalid gender")

// Gender is the closed set of categories used for team composition.
type Gender string

// Known gender categories.
const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Genders returns every known category in canonical order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

// ParseGender accepts "M" or "F" in any case.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// Player is a registered participant.
type Player struct {
	ID     string
	Name   string
	Gender Gender
}

// PlayerScore is a player together with the average rating received from
// completed voters. Values are built by the caller and never mutated.
type PlayerScore struct {
	ID           string
	Name         string
	Gender       Gender
	AverageScore float64
}
