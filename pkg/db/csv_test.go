package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

func samplePosting(id string, minPct *float64) model.Posting {
	return model.Posting{
		ID:                    id,
		Title:                 "Field Intern",
		Sector:                "Agriculture",
		Location:              "Gumla",
		District:              "Gumla",
		Requirements:          "Soil Testing, Surveys",
		Stipend:               6500,
		Capacity:              3,
		MinEligibilityPercent: minPct,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSource_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	studentsPath := writeFile(t, dir, "students.csv",
		"StudentID,Name,Skills,Location,Preference,CGPA,Category\n"+
			"S1,Asha,\"Python, SQL\",Ranchi,IT,8.1,Rural\n"+
			"S2,Bad,Excel,Patna,Finance,x,Urban\n")
	postingsPath := writeFile(t, dir, "internships.csv",
		"InternshipID,Title,Sector,Location,District,Requirements,Stipend,Capacity\n"+
			"P1,Dev Intern,IT,Ranchi,Ranchi,\"Python, Go\",12000,2\n")

	source := NewCSVSource(studentsPath, postingsPath, zap.NewNop())
	ctx := context.Background()

	students, err := source.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Python, SQL", students[0].Skills)

	postings, err := source.GetPostings(ctx)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 2, postings[0].Capacity)
}

func TestCSVSource_InsertPostingAppends(t *testing.T) {
	dir := t.TempDir()
	postingsPath := writeFile(t, dir, "internships.csv",
		"InternshipID,Title,Sector,Location,District,Requirements,Stipend,Capacity,MinEligibility\n"+
			"P1,Dev Intern,IT,Ranchi,Ranchi,Go,12000,2,")

	source := NewCSVSource(filepath.Join(dir, "students.csv"), postingsPath, zap.NewNop())
	ctx := context.Background()

	added := samplePosting("P2", nil)
	require.NoError(t, source.InsertPosting(ctx, &added))

	postings, err := source.GetPostings(ctx)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "P1", postings[0].ID)
	assert.Equal(t, added, postings[1])
}

func TestCSVSource_InsertPostingCreatesFile(t *testing.T) {
	dir := t.TempDir()
	postingsPath := filepath.Join(dir, "new.csv")
	source := NewCSVSource(filepath.Join(dir, "students.csv"), postingsPath, zap.NewNop())

	added := samplePosting("P1", nil)
	require.NoError(t, source.InsertPosting(context.Background(), &added))

	postings, err := source.GetPostings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Posting{added}, postings)
}

func TestOpenCSV_FallsBackToSample(t *testing.T) {
	dir := t.TempDir()

	repo, err := OpenCSV(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "also-missing.csv"), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SampleSource{}, repo)
}

func TestOpenCSV_UsesFilesWhenPresent(t *testing.T) {
	dir := t.TempDir()
	studentsPath := writeFile(t, dir, "students.csv", "StudentID\nS1\n")
	postingsPath := writeFile(t, dir, "internships.csv", "InternshipID\nP1\n")

	repo, err := OpenCSV(studentsPath, postingsPath, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, repo)
}

func TestSampleSource(t *testing.T) {
	source := NewSampleSource(zap.NewNop())
	ctx := context.Background()

	students, err := source.GetStudents(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, students)
	for _, s := range students {
		assert.NoError(t, model.ValidateStudent(s))
	}

	postings, err := source.GetPostings(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, postings)
	for _, p := range postings {
		assert.NoError(t, model.ValidatePosting(p))
	}

	p := samplePosting("X", nil)
	assert.ErrorIs(t, source.InsertPosting(ctx, &p), ErrReadOnly)
}
