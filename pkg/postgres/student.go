package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// GetStudents retrieves all student records ordered by ID
func (d *DB) GetStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, skills, location, preferred_sector, academic_score, category
		FROM student
		ORDER BY id
	`)
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

// InsertStudents upserts student records in a single transaction
func (d *DB) InsertStudents(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range students {
		_, err := tx.Exec(ctx, `
			INSERT INTO student (id, name, skills, location, preferred_sector, academic_score, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				skills = EXCLUDED.skills,
				location = EXCLUDED.location,
				preferred_sector = EXCLUDED.preferred_sector,
				academic_score = EXCLUDED.academic_score,
				category = EXCLUDED.category
		`, s.ID, s.Name, s.Skills, s.Location, s.PreferredSector, s.AcademicScore, s.Category)
		if err != nil {
			return fmt.Errorf("failed to insert student %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
