package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/db"
)

// ErrDuplicatePosting is returned when a posting ID is already in the pool
var ErrDuplicatePosting = errors.New("posting already exists")

// AddPosting validates a posting and adds it to the store.
// A random ID is assigned when the posting has none.
func AddPosting(ctx context.Context, store db.PostingStore, logger *zap.Logger, posting model.Posting) (*model.Posting, error) {
	if posting.ID == "" {
		posting.ID = uuid.New().String()
		logger.Debug("Assigned posting ID", zap.String("posting_id", posting.ID))
	}

	if err := model.ValidatePosting(posting); err != nil {
		return nil, err
	}
	posting = posting.Coerced()

	existing, err := store.GetPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings: %w", err)
	}
	for _, p := range existing {
		if p.ID == posting.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePosting, posting.ID)
		}
	}

	if err := store.InsertPosting(ctx, &posting); err != nil {
		return nil, fmt.Errorf("failed to insert posting: %w", err)
	}

	logger.Info("Posting added",
		zap.String("posting_id", posting.ID),
		zap.String("title", posting.Title),
		zap.Int("capacity", posting.Capacity))

	return &posting, nil
}

// acceptPostings drops postings that fail validation or repeat an earlier ID
func acceptPostings(postings []model.Posting, logger *zap.Logger) []model.Posting {
	accepted := make([]model.Posting, 0, len(postings))
	seen := make(map[string]bool, len(postings))
	for _, p := range postings {
		if err := model.ValidatePosting(p); err != nil {
			logger.Warn("Skipping invalid posting", zap.Error(err))
			continue
		}
		if seen[p.ID] {
			logger.Warn("Skipping duplicate posting", zap.String("posting_id", p.ID))
			continue
		}
		seen[p.ID] = true
		accepted = append(accepted, p.Coerced())
	}
	return accepted
}
