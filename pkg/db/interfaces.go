package db

import (
	"context"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// StudentStore defines the read operations for student records
type StudentStore interface {
	GetStudents(ctx context.Context) ([]model.Student, error)
}

// PostingStore defines the operations for internship postings
type PostingStore interface {
	GetPostings(ctx context.Context) ([]model.Posting, error)
	InsertPosting(ctx context.Context, posting *model.Posting) error
}

// Repository defines every record source operation.
// The CSV, sample, session, postgres, sqlite and sheets sources all implement it.
type Repository interface {
	StudentStore
	PostingStore
}

// Seeder bulk loads records into a persistent store
type Seeder interface {
	InsertStudents(ctx context.Context, students []model.Student) error
	InsertPostings(ctx context.Context, postings []model.Posting) error
}
