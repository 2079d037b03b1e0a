package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// GetPostings retrieves all postings in the order they were added
func (d *DB) GetPostings(ctx context.Context) ([]model.Posting, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, title, sector, location, district, requirements, stipend, capacity, min_eligibility_percent
		FROM posting
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []model.Posting
	for rows.Next() {
		var p model.Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Sector, &p.Location, &p.District, &p.Requirements, &p.Stipend, &p.Capacity, &p.MinEligibilityPercent); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}

	return postings, nil
}

// InsertPosting inserts a new posting record
func (d *DB) InsertPosting(ctx context.Context, posting *model.Posting) error {
	if err := insertPosting(ctx, d.pool, posting); err != nil {
		return fmt.Errorf("failed to insert posting: %w", err)
	}
	return nil
}

// InsertPostings inserts posting records in a single transaction
func (d *DB) InsertPostings(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range postings {
		if err := insertPosting(ctx, tx, &postings[i]); err != nil {
			return fmt.Errorf("failed to insert posting %s: %w", postings[i].ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// execer is satisfied by both the pool and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertPosting(ctx context.Context, conn execer, p *model.Posting) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO posting (id, title, sector, location, district, requirements, stipend, capacity, min_eligibility_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Sector, p.Location, p.District, p.Requirements, p.Stipend, p.Capacity, p.MinEligibilityPercent)
	return err
}
