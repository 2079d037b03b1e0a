package allocator

import (
	"sort"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/scoring"
)

// Allocator assigns students to postings greedily in processing order
type Allocator struct {
	scorer *scoring.Scorer
	state  *AllocationState
}

// AllocationConfig contains the input of one allocation run
type AllocationConfig struct {
	// Students to allocate, in input order
	Students []model.Student

	// Postings available in this run. Capacities are copied at the start of the run.
	Postings []model.Posting

	// Weights used to score students against postings
	Weights scoring.Weights

	// UseFairness enables rural-first ordering of the student queue
	UseFairness bool

	// TargetRuralFraction is the share of the queue reserved for rural students (0.0 - 1.0)
	TargetRuralFraction float64
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// State is the final allocation state
	State *AllocationState

	// Records has exactly one entry per accepted student, in processing order
	Records []Record

	// SectorCounts is the number of assignments per sector, largest first
	SectorCounts []SectorCount

	// Rejected lists input records that were left out of the run
	Rejected []RejectedRecord

	// ValidationErrors contains any invariant violations found in the final state
	ValidationErrors []ValidationError
}

// AssignedCount returns the number of students assigned a posting
func (o *AllocationOutcome) AssignedCount() int {
	count := 0
	for _, record := range o.Records {
		if record.IsAssigned() {
			count++
		}
	}
	return count
}

// UnassignedCount returns the number of students left without a posting
func (o *AllocationOutcome) UnassignedCount() int {
	return len(o.Records) - o.AssignedCount()
}

// RemainingCapacity returns the remaining capacity of every accepted posting by ID
func (o *AllocationOutcome) RemainingCapacity() map[string]int {
	remaining := make(map[string]int)
	if o.State == nil {
		return remaining
	}
	for _, posting := range o.State.Postings {
		remaining[posting.Posting.ID] = posting.Remaining
	}
	return remaining
}

// Allocate runs one allocation pass.
//
// Each student, in processing order, is ranked against the whole pool and
// assigned to the first eligible posting that still has capacity. There is no
// backtracking: a student processed early may take a place that would have been
// a better match for someone later in the queue.
func Allocate(config AllocationConfig) *AllocationOutcome {
	allocator, rejected := InitAllocation(config)

	records := make([]Record, 0, len(allocator.state.Students))
	for _, student := range allocator.state.Students {
		records = append(records, allocator.allocateStudent(student))
	}

	outcome := allocator.buildOutcome(records)
	outcome.Rejected = rejected
	if outcome.Rejected == nil {
		outcome.Rejected = []RejectedRecord{}
	}
	return outcome
}

// allocateStudent evaluates one student and commits them to their best available posting
func (a *Allocator) allocateStudent(student model.Student) Record {
	ranked := a.scorer.Rank(student)
	candidates, excluded := scoring.FilterEligible(student, ranked, a.state.Weights.AcademicScale)

	record := Record{
		StudentID:     student.ID,
		StudentName:   student.Name,
		Category:      student.Category,
		AcademicScore: student.AcademicScore,
		Status:        StatusUnassigned,
		Title:         NoCapacityLabel,
		ExcludedCount: excluded,
	}

	best, scored := a.findBestPosting(candidates)
	if best == nil {
		return record
	}

	a.allocateStudentToPosting(student, best)

	record.Status = StatusAssigned
	record.PostingID = best.Posting.ID
	record.Title = best.Posting.Title
	record.Sector = best.Posting.Sector
	record.Location = best.Posting.Location
	record.Stipend = best.Posting.Stipend
	record.MatchScore = scored.MatchScore
	return record
}

// findBestPosting returns the first ranked candidate with remaining capacity
func (a *Allocator) findBestPosting(candidates []scoring.Scored) (*PostingState, scoring.Scored) {
	for _, candidate := range candidates {
		posting := a.state.Posting(candidate.Posting.ID)
		if posting == nil || posting.IsFull() {
			continue
		}
		return posting, candidate
	}
	return nil, scoring.Scored{}
}

// allocateStudentToPosting records the assignment and consumes one place
func (a *Allocator) allocateStudentToPosting(student model.Student, posting *PostingState) {
	posting.AssignedStudentIDs = append(posting.AssignedStudentIDs, student.ID)
	posting.Remaining--
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome(records []Record) *AllocationOutcome {
	return &AllocationOutcome{
		State:            a.state,
		Records:          records,
		SectorCounts:     CountBySector(records),
		ValidationErrors: ValidateAllocationState(a.state, records),
	}
}

// CountBySector tallies assigned records per posting sector.
// Sectors are ordered by count descending, then by name.
func CountBySector(records []Record) []SectorCount {
	counts := make(map[string]int)
	for _, record := range records {
		if record.IsAssigned() {
			counts[record.Sector]++
		}
	}

	sectorCounts := make([]SectorCount, 0, len(counts))
	for sector, count := range counts {
		sectorCounts = append(sectorCounts, SectorCount{Sector: sector, Count: count})
	}
	sort.Slice(sectorCounts, func(i, j int) bool {
		if sectorCounts[i].Count != sectorCounts[j].Count {
			return sectorCounts[i].Count > sectorCounts[j].Count
		}
		return sectorCounts[i].Sector < sectorCounts[j].Sector
	})

	return sectorCounts
}
