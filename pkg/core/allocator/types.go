package allocator

import (
	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/scoring"
)

// Status is the terminal outcome of a student in an allocation run
type Status string

const (
	StatusAssigned   Status = "Assigned"
	StatusUnassigned Status = "Unassigned"
)

// NoCapacityLabel is shown in place of a title for unassigned students
const NoCapacityLabel = "— No Capacity —"

// Record is the allocation result for one student
type Record struct {
	StudentID     string
	StudentName   string
	Category      string
	AcademicScore float64

	// Posting fields are empty when Status is StatusUnassigned
	PostingID string
	Title     string
	Sector    string
	Location  string
	Stipend   float64

	// MatchScore at the time of assignment (0 when unassigned)
	MatchScore float64
	Status     Status

	// ExcludedCount is the number of postings the student was not eligible for
	ExcludedCount int
}

// IsAssigned returns true if the student was assigned a posting
func (r Record) IsAssigned() bool {
	return r.Status == StatusAssigned
}

// PostingState tracks the remaining capacity of one posting during a run
type PostingState struct {
	Posting model.Posting

	// Remaining starts at Posting.Capacity and is only ever decremented
	Remaining int

	// AssignedStudentIDs lists the students assigned to this posting, in assignment order
	AssignedStudentIDs []string
}

// IsFull returns true if no further students can be assigned
func (p *PostingState) IsFull() bool {
	return p.Remaining <= 0
}

// AllocationState is the mutable state of one allocation run.
// It is built fresh for every run, so the caller's postings are never modified.
type AllocationState struct {
	// Postings accepted for this run, in pool order
	Postings []*PostingState

	// Students accepted for this run, in processing order
	Students []model.Student

	// Weights used for scoring (normalized)
	Weights scoring.Weights

	postingsByID map[string]*PostingState
}

// Posting returns the state for the given posting ID, or nil if unknown
func (s *AllocationState) Posting(id string) *PostingState {
	return s.postingsByID[id]
}

// RecordKind identifies which kind of input a rejected record came from
type RecordKind string

const (
	RecordKindStudent RecordKind = "student"
	RecordKindPosting RecordKind = "posting"
)

// RejectedRecord is an input record that could not take part in the run
type RejectedRecord struct {
	Kind  RecordKind
	Index int // Position in the input slice
	ID    string
	Err   error
}

// SectorCount is the number of assignments made to postings in one sector
type SectorCount struct {
	Sector string
	Count  int
}

// ValidationError describes an invariant violated by the final allocation state
type ValidationError struct {
	PostingID   string
	StudentID   string
	Description string
}
