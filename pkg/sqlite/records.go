package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// GetStudents retrieves all students ordered by ID
func (d *DB) GetStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := d.pool.QueryContext(ctx, `
SELECT id, name, skills, location, preferred_sector, academic_score, category
FROM student
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Skills, &s.Location, &s.PreferredSector, &s.AcademicScore, &s.Category); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetPostings retrieves all postings in insertion order
func (d *DB) GetPostings(ctx context.Context) ([]model.Posting, error) {
	rows, err := d.pool.QueryContext(ctx, `
SELECT id, title, sector, location, district, requirements, stipend, capacity, min_eligibility_percent
FROM posting
ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []model.Posting
	for rows.Next() {
		var p model.Posting
		var minPct sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Title, &p.Sector, &p.Location, &p.District, &p.Requirements, &p.Stipend, &p.Capacity, &minPct); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		if minPct.Valid {
			v := minPct.Float64
			p.MinEligibilityPercent = &v
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}

	return postings, nil
}

// InsertPosting inserts a new posting
func (d *DB) InsertPosting(ctx context.Context, posting *model.Posting) error {
	return d.InsertPostings(ctx, []model.Posting{*posting})
}

// InsertPostings inserts postings in a single transaction
func (d *DB) InsertPostings(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range postings {
		_, err := tx.ExecContext(ctx, `
INSERT INTO posting (id, title, sector, location, district, requirements, stipend, capacity, min_eligibility_percent)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Sector, p.Location, p.District, p.Requirements, p.Stipend, p.Capacity, nullFloat(p.MinEligibilityPercent))
		if err != nil {
			return fmt.Errorf("failed to insert posting %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertStudents upserts students in a single transaction
func (d *DB) InsertStudents(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}

	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range students {
		_, err := tx.ExecContext(ctx, `
INSERT INTO student (id, name, skills, location, preferred_sector, academic_score, category)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name,
  skills = excluded.skills,
  location = excluded.location,
  preferred_sector = excluded.preferred_sector,
  academic_score = excluded.academic_score,
  category = excluded.category`,
			s.ID, s.Name, s.Skills, s.Location, s.PreferredSector, s.AcademicScore, s.Category)
		if err != nil {
			return fmt.Errorf("failed to insert student %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
