package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// ErrReadOnly is returned by sources that cannot persist new postings
var ErrReadOnly = errors.New("record source is read-only")

// RowError describes a row that could not be parsed
type RowError struct {
	Row int // 1-based, counting the header row
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Column names accepted for each field, compared after normalizeHeader
var (
	studentColumns = map[string][]string{
		"id":         {"studentid", "id"},
		"name":       {"name", "studentname"},
		"skills":     {"skills"},
		"location":   {"location", "city"},
		"preference": {"preference", "preferredsector", "sector"},
		"score":      {"cgpa", "academicscore", "percentage", "score"},
		"category":   {"category"},
	}
	postingColumns = map[string][]string{
		"id":             {"internshipid", "postingid", "id"},
		"title":          {"title"},
		"sector":         {"sector"},
		"location":       {"location", "city"},
		"district":       {"district"},
		"requirements":   {"requirements", "skills"},
		"stipend":        {"stipend"},
		"capacity":       {"capacity", "seats"},
		"minEligibility": {"mineligibility", "mineligibilitypercent", "minpercent"},
	}
)

// StudentHeader is the column order used when writing student tables
var StudentHeader = []string{"StudentID", "Name", "Skills", "Location", "Preference", "CGPA", "Category"}

// PostingHeader is the column order used when writing posting tables
var PostingHeader = []string{"InternshipID", "Title", "Sector", "Location", "District", "Requirements", "Stipend", "Capacity", "MinEligibility"}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// columnIndex maps each field to its position in header, -1 when absent
func columnIndex(header []string, columns map[string][]string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := positions[normalizeHeader(h)]; !ok {
			positions[normalizeHeader(h)] = i
		}
	}

	index := make(map[string]int, len(columns))
	for field, aliases := range columns {
		index[field] = -1
		for _, alias := range aliases {
			if pos, ok := positions[alias]; ok {
				index[field] = pos
				break
			}
		}
	}
	return index
}

func cell(row []string, index map[string]int, field string) string {
	pos := index[field]
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads a float, ignoring thousands separators and a rupee prefix
func parseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	for _, prefix := range []string{"₹", "Rs.", "Rs", "INR"} {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
	}
	return strconv.ParseFloat(cleaned, 64)
}

// ParseStudents converts a header row plus data rows into students.
// Rows that fail to parse are skipped and returned as RowErrors.
func ParseStudents(table [][]string) ([]model.Student, []RowError, error) {
	if len(table) == 0 {
		return nil, nil, nil
	}

	index := columnIndex(table[0], studentColumns)
	if index["id"] < 0 {
		return nil, nil, fmt.Errorf("student table has no StudentID column")
	}

	var students []model.Student
	var rowErrs []RowError
	for i, row := range table[1:] {
		if isBlank(row) {
			continue
		}
		rowNum := i + 2

		student := model.Student{
			ID:              cell(row, index, "id"),
			Name:            cell(row, index, "name"),
			Skills:          cell(row, index, "skills"),
			Location:        cell(row, index, "location"),
			PreferredSector: cell(row, index, "preference"),
			Category:        cell(row, index, "category"),
		}
		if student.ID == "" {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: errors.New("missing student ID")})
			continue
		}
		if raw := cell(row, index, "score"); raw != "" {
			score, err := parseNumber(raw)
			if err != nil {
				rowErrs = append(rowErrs, RowError{Row: rowNum, Err: fmt.Errorf("student %s: invalid academic score: %w", student.ID, err)})
				continue
			}
			student.AcademicScore = score
		}
		students = append(students, student)
	}

	return students, rowErrs, nil
}

// ParsePostings converts a header row plus data rows into postings.
// Rows that fail to parse are skipped and returned as RowErrors.
func ParsePostings(table [][]string) ([]model.Posting, []RowError, error) {
	if len(table) == 0 {
		return nil, nil, nil
	}

	index := columnIndex(table[0], postingColumns)
	if index["id"] < 0 {
		return nil, nil, fmt.Errorf("posting table has no InternshipID column")
	}

	var postings []model.Posting
	var rowErrs []RowError
	for i, row := range table[1:] {
		if isBlank(row) {
			continue
		}
		rowNum := i + 2

		posting, err := parsePostingRow(row, index)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		postings = append(postings, posting)
	}

	return postings, rowErrs, nil
}

func parsePostingRow(row []string, index map[string]int) (model.Posting, error) {
	posting := model.Posting{
		ID:           cell(row, index, "id"),
		Title:        cell(row, index, "title"),
		Sector:       cell(row, index, "sector"),
		Location:     cell(row, index, "location"),
		District:     cell(row, index, "district"),
		Requirements: cell(row, index, "requirements"),
	}
	if posting.ID == "" {
		return posting, errors.New("missing internship ID")
	}

	if raw := cell(row, index, "stipend"); raw != "" {
		stipend, err := parseNumber(raw)
		if err != nil {
			return posting, fmt.Errorf("posting %s: invalid stipend: %w", posting.ID, err)
		}
		posting.Stipend = stipend
	}

	if raw := cell(row, index, "capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			return posting, fmt.Errorf("posting %s: invalid capacity: %w", posting.ID, err)
		}
		posting.Capacity = capacity
	}

	if raw := strings.TrimSuffix(cell(row, index, "minEligibility"), "%"); raw != "" {
		minPct, err := parseNumber(raw)
		if err != nil {
			return posting, fmt.Errorf("posting %s: invalid minimum eligibility: %w", posting.ID, err)
		}
		posting.MinEligibilityPercent = &minPct
	}

	return posting, nil
}

// StudentRow renders a student in StudentHeader order
func StudentRow(s model.Student) []string {
	return []string{
		s.ID,
		s.Name,
		s.Skills,
		s.Location,
		s.PreferredSector,
		strconv.FormatFloat(s.AcademicScore, 'f', -1, 64),
		s.Category,
	}
}

// PostingRow renders a posting in PostingHeader order
func PostingRow(p model.Posting) []string {
	minPct := ""
	if p.MinEligibilityPercent != nil {
		minPct = strconv.FormatFloat(*p.MinEligibilityPercent, 'f', -1, 64)
	}
	return []string{
		p.ID,
		p.Title,
		p.Sector,
		p.Location,
		p.District,
		p.Requirements,
		strconv.FormatFloat(p.Stipend, 'f', -1, 64),
		strconv.Itoa(p.Capacity),
		minPct,
	}
}
