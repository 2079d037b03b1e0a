package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/internship-allocation/pkg/db"
)

// SectorCapacity is the total number of places offered in one sector
type SectorCapacity struct {
	Sector   string
	Capacity int
}

// PoolInsights summarizes the current students and postings
type PoolInsights struct {
	TotalStudents int
	RuralStudents int
	TotalPostings int
	TotalCapacity int

	// CapacityBySector is ordered by capacity descending, then by sector name
	CapacityBySector []SectorCapacity
}

// RuralShare returns the fraction of students in the rural category
func (p *PoolInsights) RuralShare() float64 {
	if p.TotalStudents == 0 {
		return 0
	}
	return float64(p.RuralStudents) / float64(p.TotalStudents)
}

// Insights summarizes the store's records as they are, without validation
func Insights(ctx context.Context, store db.Repository) (*PoolInsights, error) {
	students, err := store.GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}
	postings, err := store.GetPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings: %w", err)
	}

	insights := &PoolInsights{
		TotalStudents: len(students),
		TotalPostings: len(postings),
	}
	for _, s := range students {
		if s.IsRural() {
			insights.RuralStudents++
		}
	}

	bySector := make(map[string]int)
	for _, p := range postings {
		insights.TotalCapacity += p.Capacity
		bySector[p.Sector] += p.Capacity
	}
	for sector, capacity := range bySector {
		insights.CapacityBySector = append(insights.CapacityBySector, SectorCapacity{Sector: sector, Capacity: capacity})
	}
	sort.Slice(insights.CapacityBySector, func(i, j int) bool {
		a, b := insights.CapacityBySector[i], insights.CapacityBySector[j]
		if a.Capacity != b.Capacity {
			return a.Capacity > b.Capacity
		}
		return a.Sector < b.Sector
	})

	return insights, nil
}
