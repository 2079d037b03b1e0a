package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/core/allocator"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/metrics"
)

// AllocateOptions overrides the configured fairness settings for one run
type AllocateOptions struct {
	UseFairness    *bool
	TargetRuralPct *float64
}

// AllocationResult is the outcome of one allocation run
type AllocationResult struct {
	RunID   string
	Outcome *allocator.AllocationOutcome
	Elapsed time.Duration
}

// AllocateInternships loads students and postings, runs the allocator and
// records metrics. The outcome is returned to the caller and not stored.
func AllocateInternships(
	ctx context.Context,
	store db.Repository,
	cfg *config.Config,
	recorder *metrics.Recorder,
	logger *zap.Logger,
	opts AllocateOptions,
) (*AllocationResult, error) {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	logger.Debug("Fetching students")
	students, err := store.GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}

	logger.Debug("Fetching postings")
	postings, err := store.GetPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings: %w", err)
	}

	allocationConfig := allocator.AllocationConfig{
		Students:            students,
		Postings:            postings,
		Weights:             cfg.Weights(),
		UseFairness:         cfg.Matching.UseFairness,
		TargetRuralFraction: cfg.TargetRuralFraction(),
	}
	if opts.UseFairness != nil {
		allocationConfig.UseFairness = *opts.UseFairness
	}
	if opts.TargetRuralPct != nil {
		allocationConfig.TargetRuralFraction = *opts.TargetRuralPct / 100
	}

	logger.Debug("Running allocation",
		zap.Int("students", len(students)),
		zap.Int("postings", len(postings)),
		zap.Bool("use_fairness", allocationConfig.UseFairness),
		zap.Float64("target_rural_fraction", allocationConfig.TargetRuralFraction))

	start := time.Now()
	outcome := allocator.Allocate(allocationConfig)
	elapsed := time.Since(start)

	for _, rejected := range outcome.Rejected {
		logger.Warn("Record rejected",
			zap.String("kind", string(rejected.Kind)),
			zap.Int("index", rejected.Index),
			zap.String("id", rejected.ID),
			zap.Error(rejected.Err))
	}
	for _, v := range outcome.ValidationErrors {
		logger.Error("Allocation state invalid",
			zap.String("posting_id", v.PostingID),
			zap.String("student_id", v.StudentID),
			zap.String("description", v.Description))
	}
	if len(outcome.ValidationErrors) > 0 {
		return nil, fmt.Errorf("allocation produced %d invariant violations", len(outcome.ValidationErrors))
	}

	if recorder != nil {
		recorder.RecordAllocation(outcome, elapsed)
	}

	result := &AllocationResult{
		RunID:   runID,
		Outcome: outcome,
		Elapsed: elapsed,
	}

	logger.Info("Allocation complete",
		zap.Int("assigned", outcome.AssignedCount()),
		zap.Int("unassigned", outcome.UnassignedCount()),
		zap.Int("rejected", len(outcome.Rejected)),
		zap.Duration("elapsed", elapsed))

	return result, nil
}
