package allocator

import (
	"fmt"
	"slices"
)

// ValidateAllocationState checks the final state of a run against the core invariants:
//   - every accepted student has exactly one record, either assigned or unassigned
//   - no posting has more assignments than its original capacity
//   - remaining capacity never goes negative and matches the assignments made
//   - every assigned record points at a known posting that lists the student
//
// Returns an empty slice when the state is valid.
func ValidateAllocationState(state *AllocationState, records []Record) []ValidationError {
	errors := []ValidationError{}

	// One record per student
	recordCounts := make(map[string]int)
	for _, record := range records {
		recordCounts[record.StudentID]++
		if record.Status != StatusAssigned && record.Status != StatusUnassigned {
			errors = append(errors, ValidationError{
				StudentID:   record.StudentID,
				Description: fmt.Sprintf("Student %s has unknown status %q", record.StudentID, record.Status),
			})
		}
	}
	for _, student := range state.Students {
		if count := recordCounts[student.ID]; count != 1 {
			errors = append(errors, ValidationError{
				StudentID:   student.ID,
				Description: fmt.Sprintf("Student %s has %d allocation records but should have exactly 1", student.ID, count),
			})
		}
	}

	// Capacity
	for _, posting := range state.Postings {
		assigned := len(posting.AssignedStudentIDs)
		if assigned > posting.Posting.Capacity {
			errors = append(errors, ValidationError{
				PostingID:   posting.Posting.ID,
				Description: fmt.Sprintf("Posting %s is overfilled: has %d students but capacity is %d", posting.Posting.ID, assigned, posting.Posting.Capacity),
			})
		}
		if posting.Remaining < 0 {
			errors = append(errors, ValidationError{
				PostingID:   posting.Posting.ID,
				Description: fmt.Sprintf("Posting %s has negative remaining capacity %d", posting.Posting.ID, posting.Remaining),
			})
		}
		if posting.Remaining != posting.Posting.Capacity-assigned {
			errors = append(errors, ValidationError{
				PostingID:   posting.Posting.ID,
				Description: fmt.Sprintf("Posting %s remaining capacity %d does not match %d assignments out of %d", posting.Posting.ID, posting.Remaining, assigned, posting.Posting.Capacity),
			})
		}
	}

	// Assigned records must match posting state
	for _, record := range records {
		if !record.IsAssigned() {
			continue
		}
		posting := state.Posting(record.PostingID)
		if posting == nil {
			errors = append(errors, ValidationError{
				PostingID:   record.PostingID,
				StudentID:   record.StudentID,
				Description: fmt.Sprintf("Student %s is assigned to unknown posting %s", record.StudentID, record.PostingID),
			})
			continue
		}
		if !slices.Contains(posting.AssignedStudentIDs, record.StudentID) {
			errors = append(errors, ValidationError{
				PostingID:   record.PostingID,
				StudentID:   record.StudentID,
				Description: fmt.Sprintf("Posting %s does not list assigned student %s", record.PostingID, record.StudentID),
			})
		}
	}

	return errors
}

