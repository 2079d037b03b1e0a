package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/db"
)

var (
	_ db.Repository = (*DB)(nil)
	_ db.Seeder     = (*DB)(nil)
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	d, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	ran, err := d.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, len(schema), ran)
	return d
}

func TestMigrate_Idempotent(t *testing.T) {
	d := openTestDB(t)

	ran, err := d.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ran)
}

func TestStudents_UpsertAndRead(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertStudents(ctx, []model.Student{
		{ID: "S2", Name: "Ravi", Skills: "AutoCAD", AcademicScore: 6.9, Category: "Rural"},
		{ID: "S1", Name: "Asha", Skills: "Python", AcademicScore: 8.0},
	}))
	require.NoError(t, d.InsertStudents(ctx, []model.Student{
		{ID: "S1", Name: "Asha K", Skills: "Python, SQL", AcademicScore: 8.2},
	}))

	students, err := d.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "S1", students[0].ID)
	assert.Equal(t, "Asha K", students[0].Name)
	assert.Equal(t, 8.2, students[0].AcademicScore)
	assert.Equal(t, "Rural", students[1].Category)
}

func TestPostings_PreserveInsertionOrder(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	minPct := 60.0
	require.NoError(t, d.InsertPostings(ctx, []model.Posting{
		{ID: "P9", Title: "Field", Capacity: 2, MinEligibilityPercent: &minPct},
		{ID: "P1", Title: "Lab", Capacity: 1, Stipend: 5000},
	}))
	require.NoError(t, d.InsertPosting(ctx, &model.Posting{ID: "P5", Title: "Office"}))

	postings, err := d.GetPostings(ctx)
	require.NoError(t, err)
	require.Len(t, postings, 3)
	assert.Equal(t, "P9", postings[0].ID)
	assert.Equal(t, "P1", postings[1].ID)
	assert.Equal(t, "P5", postings[2].ID)

	require.NotNil(t, postings[0].MinEligibilityPercent)
	assert.Equal(t, 60.0, *postings[0].MinEligibilityPercent)
	assert.Nil(t, postings[1].MinEligibilityPercent)
	assert.Equal(t, 5000.0, postings[1].Stipend)
}

func TestPostings_DuplicateIDRejected(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertPosting(ctx, &model.Posting{ID: "P1"}))
	assert.Error(t, d.InsertPosting(ctx, &model.Posting{ID: "P1"}))
}
