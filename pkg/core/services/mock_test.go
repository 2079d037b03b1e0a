package services

import (
	"context"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// mockStore implements db.Repository for tests
type mockStore struct {
	students []model.Student
	postings []model.Posting

	studentsErr error
	postingsErr error
	insertErr   error

	inserted []model.Posting
}

func (m *mockStore) GetStudents(ctx context.Context) ([]model.Student, error) {
	if m.studentsErr != nil {
		return nil, m.studentsErr
	}
	return m.students, nil
}

func (m *mockStore) GetPostings(ctx context.Context) ([]model.Posting, error) {
	if m.postingsErr != nil {
		return nil, m.postingsErr
	}
	return append(append([]model.Posting{}, m.postings...), m.inserted...), nil
}

func (m *mockStore) InsertPosting(ctx context.Context, posting *model.Posting) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *posting)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func testPostings() []model.Posting {
	return []model.Posting{
		{ID: "P1", Title: "ML Intern", Sector: "AI/ML", Location: "Bengaluru", Requirements: "python, machine learning", Capacity: 1, Stipend: 15000},
		{ID: "P2", Title: "Accounts Intern", Sector: "Finance", Location: "Patna", Requirements: "accounting, tally, excel", Capacity: 1, Stipend: 8000},
		{ID: "P3", Title: "Data Intern", Sector: "Analytics", Location: "Ranchi", District: "Ranchi", Requirements: "python, excel, statistics", Capacity: 2, MinEligibilityPercent: ptr(85.0)},
	}
}

func testStudents() []model.Student {
	return []model.Student{
		{ID: "S1", Name: "Aditi", Skills: "python, machine learning", Location: "Delhi", PreferredSector: "AI/ML", AcademicScore: 8.7, Category: "Urban"},
		{ID: "S2", Name: "Rahul", Skills: "accounting, tally", Location: "Patna", PreferredSector: "Finance", AcademicScore: 7.4, Category: "Rural"},
		{ID: "S3", Name: "Sunita", Skills: "excel, statistics", Location: "Ranchi", PreferredSector: "Analytics", AcademicScore: 9.0, Category: "Rural"},
	}
}
