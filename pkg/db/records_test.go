package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudents_MapsHeadersCaseInsensitively(t *testing.T) {
	table := [][]string{
		{"category", "CGPA", "student_id", "NAME", "Skills", "Location", "Preferred Sector"},
		{"Rural", "8.5", "S1", "Asha", "Python, SQL", "Ranchi", "IT"},
	}

	students, rowErrs, err := ParseStudents(table)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, students, 1)

	s := students[0]
	assert.Equal(t, "S1", s.ID)
	assert.Equal(t, "Asha", s.Name)
	assert.Equal(t, "Python, SQL", s.Skills)
	assert.Equal(t, "Ranchi", s.Location)
	assert.Equal(t, "IT", s.PreferredSector)
	assert.Equal(t, 8.5, s.AcademicScore)
	assert.True(t, s.IsRural())
}

func TestParseStudents_SkipsMalformedRows(t *testing.T) {
	table := [][]string{
		{"StudentID", "Name", "CGPA"},
		{"S1", "Good", "7.0"},
		{"", "No ID", "8.0"},
		{"S3", "Bad Score", "eight"},
		{"", "", ""},
		{"S5", "No Score", ""},
	}

	students, rowErrs, err := ParseStudents(table)
	require.NoError(t, err)

	require.Len(t, students, 2)
	assert.Equal(t, "S1", students[0].ID)
	assert.Equal(t, "S5", students[1].ID)
	assert.Equal(t, 0.0, students[1].AcademicScore)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Equal(t, 4, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Error(), "invalid academic score")
}

func TestParseStudents_MissingIDColumn(t *testing.T) {
	_, _, err := ParseStudents([][]string{{"Name", "Skills"}})
	assert.Error(t, err)
}

func TestParseStudents_EmptyTable(t *testing.T) {
	students, rowErrs, err := ParseStudents(nil)
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Empty(t, rowErrs)
}

func TestParsePostings(t *testing.T) {
	table := [][]string{
		PostingHeader,
		{"P1", "Data Intern", "Analytics", "Ranchi", "Ranchi", "Excel, SQL", "10,000", "2", "60"},
		{"P2", "Web Intern", "IT", "Pune", "Pune", "HTML", "₹8000", "1", ""},
		{"P3", "Broken", "IT", "Pune", "Pune", "HTML", "5000", "two", ""},
		{"P4", "Short Row", "IT"},
	}

	postings, rowErrs, err := ParsePostings(table)
	require.NoError(t, err)

	require.Len(t, postings, 3)
	assert.Equal(t, 10000.0, postings[0].Stipend)
	assert.Equal(t, 2, postings[0].Capacity)
	require.NotNil(t, postings[0].MinEligibilityPercent)
	assert.Equal(t, 60.0, *postings[0].MinEligibilityPercent)

	assert.Equal(t, 8000.0, postings[1].Stipend)
	assert.Nil(t, postings[1].MinEligibilityPercent)

	assert.Equal(t, "P4", postings[2].ID)
	assert.Equal(t, 0, postings[2].Capacity)

	require.Len(t, rowErrs, 1)
	assert.Equal(t, 4, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Error(), "invalid capacity")
}

func TestPostingRow_RoundTripsThroughParser(t *testing.T) {
	minPct := 55.5
	table := [][]string{
		PostingHeader,
		PostingRow(samplePosting("P9", &minPct)),
	}

	postings, rowErrs, err := ParsePostings(table)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, postings, 1)
	assert.Equal(t, samplePosting("P9", &minPct), postings[0])
}
