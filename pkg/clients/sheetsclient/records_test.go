package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/db"
)

var _ db.Repository = (*Source)(nil)

type fakeReader struct {
	tabs map[string][][]interface{}
	err  error
}

func (f *fakeReader) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tabs[sheetRange], nil
}

func TestSource_GetStudents(t *testing.T) {
	reader := &fakeReader{tabs: map[string][][]interface{}{
		"Students": {
			{"StudentID", "Name", "Skills", "Location", "Preference", "CGPA", "Category"},
			{"S1", "Asha", "Python, SQL", "Ranchi", "IT", "8.2", "Rural"},
			{"S2", "Vikram", "Excel"}, // trailing cells omitted by the API
			{"", "No ID"},
		},
	}}
	source := NewSource(reader, "sheet-id", "Students", "Internships", zap.NewNop())

	students, err := source.GetStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 8.2, students[0].AcademicScore)
	assert.True(t, students[0].IsRural())
	assert.Equal(t, "S2", students[1].ID)
	assert.Equal(t, 0.0, students[1].AcademicScore)
}

func TestSource_GetPostings(t *testing.T) {
	reader := &fakeReader{tabs: map[string][][]interface{}{
		"Internships": {
			{"InternshipID", "Title", "Sector", "Location", "District", "Requirements", "Stipend", "Capacity", "MinEligibility"},
			{"P1", "Data Intern", "Analytics", "Ranchi", "Ranchi", "Excel", "9000", "2", "60"},
		},
	}}
	source := NewSource(reader, "sheet-id", "Students", "Internships", zap.NewNop())

	postings, err := source.GetPostings(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 2, postings[0].Capacity)
	require.NotNil(t, postings[0].MinEligibilityPercent)
	assert.Equal(t, 60.0, *postings[0].MinEligibilityPercent)
}

func TestSource_Errors(t *testing.T) {
	ctx := context.Background()

	empty := NewSource(&fakeReader{tabs: map[string][][]interface{}{}}, "id", "Students", "Internships", zap.NewNop())
	_, err := empty.GetStudents(ctx)
	assert.ErrorContains(t, err, "is empty")

	failing := NewSource(&fakeReader{err: errors.New("quota exceeded")}, "id", "Students", "Internships", zap.NewNop())
	_, err = failing.GetPostings(ctx)
	assert.ErrorContains(t, err, "quota exceeded")

	assert.ErrorIs(t, failing.InsertPosting(ctx, &model.Posting{ID: "P1"}), db.ErrReadOnly)
}
