package scoring

import "github.com/jakechorley/internship-allocation/pkg/core/model"

// IsEligible returns false if the posting's minimum eligibility percentage
// exceeds the student's academic percentage
func IsEligible(student model.Student, posting model.Posting, scale AcademicScale) bool {
	if posting.MinEligibilityPercent == nil {
		return true
	}
	return *posting.MinEligibilityPercent <= AcademicPercent(student.AcademicScore, scale)
}

// FilterEligible drops candidates the student is not eligible for, preserving order.
// Returns the kept candidates and the number excluded.
func FilterEligible(student model.Student, candidates []Scored, scale AcademicScale) ([]Scored, int) {
	kept := make([]Scored, 0, len(candidates))
	for _, candidate := range candidates {
		if IsEligible(student, candidate.Posting, scale) {
			kept = append(kept, candidate)
		}
	}
	return kept, len(candidates) - len(kept)
}
