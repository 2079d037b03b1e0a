package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/db"
)

// ValueReader reads a range of cells from a spreadsheet
type ValueReader interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// Source reads students and postings from two tabs of a spreadsheet.
// The tabs use the same headers as the CSV files.
type Source struct {
	reader        ValueReader
	spreadsheetID string
	studentsTab   string
	postingsTab   string
	logger        *zap.Logger
}

// NewSource creates a read-only repository over a spreadsheet
func NewSource(reader ValueReader, spreadsheetID, studentsTab, postingsTab string, logger *zap.Logger) *Source {
	return &Source{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		studentsTab:   studentsTab,
		postingsTab:   postingsTab,
		logger:        logger,
	}
}

func (s *Source) GetStudents(ctx context.Context) ([]model.Student, error) {
	table, err := s.readTab(ctx, s.studentsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get student data: %w", err)
	}

	students, rowErrs, err := db.ParseStudents(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse students: %w", err)
	}
	s.logRowErrors(s.studentsTab, rowErrs)

	return students, nil
}

func (s *Source) GetPostings(ctx context.Context) ([]model.Posting, error) {
	table, err := s.readTab(ctx, s.postingsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get posting data: %w", err)
	}

	postings, rowErrs, err := db.ParsePostings(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postings: %w", err)
	}
	s.logRowErrors(s.postingsTab, rowErrs)

	return postings, nil
}

// InsertPosting always fails; the client only holds a read-only scope
func (s *Source) InsertPosting(ctx context.Context, posting *model.Posting) error {
	return db.ErrReadOnly
}

func (s *Source) readTab(ctx context.Context, tab string) ([][]string, error) {
	values, err := s.reader.GetValues(ctx, s.spreadsheetID, tab)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("tab %q is empty", tab)
	}
	return toStrings(values), nil
}

func (s *Source) logRowErrors(tab string, rowErrs []db.RowError) {
	for _, rowErr := range rowErrs {
		s.logger.Warn("Skipping malformed row",
			zap.String("tab", tab),
			zap.Int("row", rowErr.Row),
			zap.Error(rowErr.Err))
	}
}

// toStrings converts API cell values to strings. The API omits trailing empty cells.
func toStrings(values [][]interface{}) [][]string {
	table := make([][]string, len(values))
	for i, row := range values {
		table[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				table[i][j] = fmt.Sprint(v)
			}
		}
	}
	return table
}
