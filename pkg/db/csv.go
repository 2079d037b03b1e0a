package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// CSVSource reads students and postings from a pair of CSV files
type CSVSource struct {
	studentsPath string
	postingsPath string
	logger       *zap.Logger

	mu sync.Mutex // serializes appends to the postings file
}

// NewCSVSource creates a CSV backed repository
func NewCSVSource(studentsPath, postingsPath string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		studentsPath: studentsPath,
		postingsPath: postingsPath,
		logger:       logger,
	}
}

// OpenCSV returns a CSV source for the given files, or the embedded sample data
// when either file does not exist.
func OpenCSV(studentsPath, postingsPath string, logger *zap.Logger) (Repository, error) {
	for _, path := range []string{studentsPath, postingsPath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("CSV file not found, using sample data", zap.String("path", path))
				return NewSampleSource(logger), nil
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return NewCSVSource(studentsPath, postingsPath, logger), nil
}

// GetStudents reads every parseable student row
func (c *CSVSource) GetStudents(ctx context.Context) ([]model.Student, error) {
	table, err := readCSVFile(c.studentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read students: %w", err)
	}

	students, rowErrs, err := ParseStudents(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse students: %w", err)
	}
	logRowErrors(c.logger, c.studentsPath, rowErrs)

	return students, nil
}

// GetPostings reads every parseable posting row
func (c *CSVSource) GetPostings(ctx context.Context) ([]model.Posting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, err := readCSVFile(c.postingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read postings: %w", err)
	}

	postings, rowErrs, err := ParsePostings(table)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postings: %w", err)
	}
	logRowErrors(c.logger, c.postingsPath, rowErrs)

	return postings, nil
}

// InsertPosting appends a posting row, writing the header first if the file is empty
func (c *CSVSource) InsertPosting(ctx context.Context, posting *model.Posting) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.postingsPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open postings file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat postings file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(PostingHeader); err != nil {
			return fmt.Errorf("failed to write postings header: %w", err)
		}
	} else if err := ensureTrailingNewline(f, info.Size()); err != nil {
		return err
	}
	if err := w.Write(PostingRow(*posting)); err != nil {
		return fmt.Errorf("failed to write posting: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush postings file: %w", err)
	}

	return nil
}

func ensureTrailingNewline(f *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return fmt.Errorf("failed to read postings file: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write postings file: %w", err)
	}
	return nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func logRowErrors(logger *zap.Logger, source string, rowErrs []RowError) {
	for _, rowErr := range rowErrs {
		logger.Warn("Skipping malformed row",
			zap.String("source", source),
			zap.Int("row", rowErr.Row),
			zap.Error(rowErr.Err))
	}
}
