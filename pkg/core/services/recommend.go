package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/scoring"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/metrics"
)

// ErrStudentNotFound is returned when a student ID is not in the store
var ErrStudentNotFound = errors.New("student not found")

// defaultAcademicFraction is assumed for ad-hoc profiles without an academic
// score: 8.0 on the CGPA scale, 80 on the percentage scale
const defaultAcademicFraction = 0.8

// StudentProfile is an ad-hoc profile entered by a student
type StudentProfile struct {
	Name            string
	Skills          string
	Location        string
	PreferredSector string

	// AcademicScore is nil when the student did not provide one
	AcademicScore *float64
}

// RecommendResult holds the top postings for one student
type RecommendResult struct {
	Student model.Student

	// Recommendations are the eligible postings, best first, truncated to TopN
	Recommendations []scoring.Scored

	// ExcludedCount is the number of postings the student was not eligible for
	ExcludedCount int
}

// Recommend ranks the posting pool for an ad-hoc profile
func Recommend(ctx context.Context, store db.PostingStore, cfg *config.Config, recorder *metrics.Recorder, logger *zap.Logger, profile StudentProfile) (*RecommendResult, error) {
	if strings.TrimSpace(profile.Skills) == "" {
		return nil, fmt.Errorf("%w: skills are required to get recommendations", model.ErrInvalidInput)
	}

	student := model.Student{
		ID:              "adhoc",
		Name:            profile.Name,
		Skills:          profile.Skills,
		Location:        profile.Location,
		PreferredSector: profile.PreferredSector,
		AcademicScore:   defaultAcademicFraction * float64(cfg.Weights().Normalize().AcademicScale),
	}
	if profile.AcademicScore != nil {
		student.AcademicScore = *profile.AcademicScore
	}
	if err := model.ValidateStudent(student); err != nil {
		return nil, err
	}

	return recommend(ctx, store, cfg, recorder, logger, student)
}

// RecommendForStudentID ranks the posting pool for a stored student
func RecommendForStudentID(ctx context.Context, store db.Repository, cfg *config.Config, recorder *metrics.Recorder, logger *zap.Logger, studentID string) (*RecommendResult, error) {
	logger.Debug("Fetching students")
	students, err := store.GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}

	for _, s := range students {
		if s.ID == studentID {
			if err := model.ValidateStudent(s); err != nil {
				return nil, err
			}
			return recommend(ctx, store, cfg, recorder, logger, s)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
}

func recommend(ctx context.Context, store db.PostingStore, cfg *config.Config, recorder *metrics.Recorder, logger *zap.Logger, student model.Student) (*RecommendResult, error) {
	logger.Debug("Fetching postings")
	postings, err := store.GetPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings: %w", err)
	}

	pool := acceptPostings(postings, logger)
	logger.Debug("Scoring postings", zap.String("student_id", student.ID), zap.Int("pool_size", len(pool)))

	scorer := scoring.NewScorer(pool, cfg.Weights())
	ranked := scorer.Rank(student)
	eligible, excluded := scoring.FilterEligible(student, ranked, scorer.Weights().AcademicScale)

	if topN := cfg.Matching.TopN; topN > 0 && len(eligible) > topN {
		eligible = eligible[:topN]
	}

	logger.Debug("Recommendations computed",
		zap.Int("returned", len(eligible)),
		zap.Int("excluded", excluded))

	if recorder != nil {
		recorder.RecordRecommendation()
	}

	return &RecommendResult{
		Student:         student,
		Recommendations: eligible,
		ExcludedCount:   excluded,
	}, nil
}
