package db

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

//go:embed sample/*.csv
var sampleFS embed.FS

// SampleSource serves the bundled demo students and postings
type SampleSource struct {
	logger *zap.Logger
}

// NewSampleSource creates a read-only repository over the embedded sample data
func NewSampleSource(logger *zap.Logger) *SampleSource {
	return &SampleSource{logger: logger}
}

func (s *SampleSource) GetStudents(ctx context.Context) ([]model.Student, error) {
	table, err := readSample("sample/students.csv")
	if err != nil {
		return nil, err
	}
	students, rowErrs, err := ParseStudents(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sample students: %w", err)
	}
	logRowErrors(s.logger, "sample/students.csv", rowErrs)
	return students, nil
}

func (s *SampleSource) GetPostings(ctx context.Context) ([]model.Posting, error) {
	table, err := readSample("sample/internships.csv")
	if err != nil {
		return nil, err
	}
	postings, rowErrs, err := ParsePostings(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sample postings: %w", err)
	}
	logRowErrors(s.logger, "sample/internships.csv", rowErrs)
	return postings, nil
}

// InsertPosting always fails; wrap the source in a SessionStore to add postings
func (s *SampleSource) InsertPosting(ctx context.Context, posting *model.Posting) error {
	return ErrReadOnly
}

func readSample(name string) ([][]string, error) {
	data, err := sampleFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	table, err := readCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return table, nil
}
