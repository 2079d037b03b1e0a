package allocator

import (
	"fmt"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/scoring"
)

// InitAllocation validates the input records and builds a fresh allocation state.
//
// Records that fail validation (missing or duplicate IDs, negative capacity, ...)
// are left out of the run and reported as rejected. Negative academic scores and
// stipends are raised to zero rather than rejected. Students are ordered by the
// fairness policy when it is enabled, otherwise they keep their input order.
func InitAllocation(config AllocationConfig) (*Allocator, []RejectedRecord) {
	var rejected []RejectedRecord

	state := &AllocationState{
		Postings:     make([]*PostingState, 0, len(config.Postings)),
		Weights:      config.Weights.Normalize(),
		postingsByID: make(map[string]*PostingState),
	}

	// Accept postings, capacities are copied so the run never touches the caller's data
	pool := make([]model.Posting, 0, len(config.Postings))
	for i, posting := range config.Postings {
		if err := model.ValidatePosting(posting); err != nil {
			rejected = append(rejected, RejectedRecord{Kind: RecordKindPosting, Index: i, ID: posting.ID, Err: err})
			continue
		}
		if _, exists := state.postingsByID[posting.ID]; exists {
			rejected = append(rejected, RejectedRecord{
				Kind:  RecordKindPosting,
				Index: i,
				ID:    posting.ID,
				Err:   fmt.Errorf("%w: duplicate posting id %q", model.ErrInvalidInput, posting.ID),
			})
			continue
		}

		posting = posting.Coerced()
		postingState := &PostingState{
			Posting:            posting,
			Remaining:          posting.Capacity,
			AssignedStudentIDs: []string{},
		}
		state.Postings = append(state.Postings, postingState)
		state.postingsByID[posting.ID] = postingState
		pool = append(pool, posting)
	}

	// Accept students
	students := make([]model.Student, 0, len(config.Students))
	seenStudents := make(map[string]bool)
	for i, student := range config.Students {
		if err := model.ValidateStudent(student); err != nil {
			rejected = append(rejected, RejectedRecord{Kind: RecordKindStudent, Index: i, ID: student.ID, Err: err})
			continue
		}
		if seenStudents[student.ID] {
			rejected = append(rejected, RejectedRecord{
				Kind:  RecordKindStudent,
				Index: i,
				ID:    student.ID,
				Err:   fmt.Errorf("%w: duplicate student id %q", model.ErrInvalidInput, student.ID),
			})
			continue
		}
		seenStudents[student.ID] = true
		students = append(students, student.Coerced())
	}

	if config.UseFairness {
		students = OrderStudents(students, config.TargetRuralFraction)
	}
	state.Students = students

	return &Allocator{
		scorer: scoring.NewScorer(pool, state.Weights),
		state:  state,
	}, rejected
}
