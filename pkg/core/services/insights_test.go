package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

func TestInsights(t *testing.T) {
	postings := append(testPostings(), model.Posting{ID: "P4", Sector: "Finance", Capacity: 1})
	store := &mockStore{students: testStudents(), postings: postings}

	insights, err := Insights(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 3, insights.TotalStudents)
	assert.Equal(t, 2, insights.RuralStudents)
	assert.InDelta(t, 2.0/3.0, insights.RuralShare(), 1e-9)
	assert.Equal(t, 4, insights.TotalPostings)
	assert.Equal(t, 5, insights.TotalCapacity)
	assert.Equal(t, []SectorCapacity{
		{Sector: "Analytics", Capacity: 2},
		{Sector: "Finance", Capacity: 2},
		{Sector: "AI/ML", Capacity: 1},
	}, insights.CapacityBySector)
}

func TestInsights_Empty(t *testing.T) {
	insights, err := Insights(context.Background(), &mockStore{})
	require.NoError(t, err)
	assert.Equal(t, 0, insights.TotalStudents)
	assert.Equal(t, 0.0, insights.RuralShare())
	assert.Empty(t, insights.CapacityBySector)
}

func TestInsights_StoreError(t *testing.T) {
	_, err := Insights(context.Background(), &mockStore{studentsErr: errors.New("boom")})
	assert.ErrorContains(t, err, "failed to fetch students")
}
