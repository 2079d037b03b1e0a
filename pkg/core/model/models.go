package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CategoryRural is the student category favoured by the fairness ordering
const CategoryRural = "rural"

// ErrInvalidInput marks a record that cannot take part in matching
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// Student represents a student profile as loaded from a record source
type Student struct {
	ID              string  `validate:"required"`
	Name            string
	Skills          string  // Comma separated, case-insensitive
	Location        string  // City or district
	PreferredSector string
	AcademicScore   float64 // CGPA (0-10) or percentage (0-100) depending on source
	Category        string
}

// IsRural returns true if the student belongs to the rural category
func (s Student) IsRural() bool {
	return strings.EqualFold(strings.TrimSpace(s.Category), CategoryRural)
}

// Coerced returns the student with a negative academic score raised to zero
func (s Student) Coerced() Student {
	s.AcademicScore = max(s.AcademicScore, 0)
	return s
}

// Posting represents an internship posting
type Posting struct {
	ID           string `validate:"required"`
	Title        string
	Sector       string
	Location     string
	District     string
	Requirements string
	Stipend      float64
	Capacity     int     `validate:"min=0"`

	// MinEligibilityPercent is the minimum academic percentage required (nil if none)
	MinEligibilityPercent *float64 `validate:"omitempty,min=0,max=100"`
}

// Coerced returns the posting with a negative stipend raised to zero
func (p Posting) Coerced() Posting {
	p.Stipend = max(p.Stipend, 0)
	return p
}

// ValidateStudent checks a student record, wrapping failures in ErrInvalidInput
func ValidateStudent(s Student) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: student %q: %v", ErrInvalidInput, s.ID, err)
	}
	return nil
}

// ValidatePosting checks a posting record, wrapping failures in ErrInvalidInput
func ValidatePosting(p Posting) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: posting %q: %v", ErrInvalidInput, p.ID, err)
	}
	return nil
}
