// Package scoring turns a student profile and a pool of internship postings into
// MatchScores and ranked candidate lists.
package scoring

import (
	"sort"
	"strings"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/similarity"
)

// maxScore bounds the base components, and the whole score when clamping is enabled
const maxScore = 100

// Components is the breakdown of a MatchScore
type Components struct {
	// SkillMatchPct is the skills/requirements text similarity scaled to 0-100
	SkillMatchPct float64

	// AcademicPct is the student's academic score as a 0-100 percentage
	AcademicPct float64

	// PreferenceBoost is the applied preference boost (0 if the sector did not match)
	PreferenceBoost float64

	// LocationBoost is the applied location boost (0 if the location did not match)
	LocationBoost float64
}

// Scored pairs a posting with its score for one student
type Scored struct {
	Posting    model.Posting
	Components Components
	MatchScore float64
}

// Scorer scores students against a fixed posting pool.
// The text similarity space of the pool is built once and shared by every student.
type Scorer struct {
	pool    []model.Posting
	corpus  *similarity.Corpus
	weights Weights
}

// NewScorer prepares a scorer for the given pool. Weights are normalized.
func NewScorer(pool []model.Posting, weights Weights) *Scorer {
	requirements := make([]string, len(pool))
	for i, posting := range pool {
		requirements[i] = posting.Requirements
	}

	return &Scorer{
		pool:    pool,
		corpus:  similarity.NewCorpus(requirements),
		weights: weights.Normalize(),
	}
}

// Weights returns the normalized weights used by this scorer
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes a MatchScore for every posting in the pool, in pool order
func (s *Scorer) Score(student model.Student) []Scored {
	skillMatch := s.corpus.Similarity(student.Skills)
	academicPct := AcademicPercent(student.AcademicScore, s.weights.AcademicScale)

	results := make([]Scored, len(s.pool))
	for i, posting := range s.pool {
		components := Components{
			SkillMatchPct: skillMatch[i] * 100,
			AcademicPct:   academicPct,
		}
		if sectorMatches(student.PreferredSector, posting.Sector) {
			components.PreferenceBoost = s.weights.PreferenceBoost
		}
		if locationMatches(student.Location, posting) {
			components.LocationBoost = s.weights.LocationBoost
		}

		results[i] = Scored{
			Posting:    posting,
			Components: components,
			MatchScore: s.combine(components),
		}
	}

	return results
}

// Rank scores the pool and sorts it by MatchScore, highest first.
// Postings with equal scores keep their pool order.
func (s *Scorer) Rank(student model.Student) []Scored {
	ranked := s.Score(student)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

// combine applies the weighted sum plus boosts
func (s *Scorer) combine(c Components) float64 {
	base := c.SkillMatchPct*(s.weights.SkillWeightPct/100) + c.AcademicPct*(s.weights.AcademicWeightPct/100)
	score := base + c.PreferenceBoost + c.LocationBoost

	if s.weights.ClampScore {
		score = clamp(score, 0, maxScore)
	}
	return score
}

// Score computes MatchScores for a student against a pool in a fresh similarity space
func Score(student model.Student, pool []model.Posting, weights Weights) []Scored {
	return NewScorer(pool, weights).Score(student)
}

// Rank returns the pool sorted by MatchScore descending, ties in pool order
func Rank(student model.Student, pool []model.Posting, weights Weights) []Scored {
	return NewScorer(pool, weights).Rank(student)
}

// AcademicPercent converts an academic score to a percentage clamped to [0, 100]
func AcademicPercent(score float64, scale AcademicScale) float64 {
	if scale <= 0 {
		scale = ScaleCGPA
	}
	return clamp(score/float64(scale)*100, 0, maxScore)
}

// sectorMatches reports whether the preferred sector is a substring of the posting sector.
// An empty preference never matches.
func sectorMatches(preferred, sector string) bool {
	preferred = normalize(preferred)
	if preferred == "" {
		return false
	}
	return strings.Contains(normalize(sector), preferred)
}

// locationMatches reports whether the student's location equals the posting's location or district.
// An empty location never matches.
func locationMatches(location string, posting model.Posting) bool {
	location = normalize(location)
	if location == "" {
		return false
	}
	return location == normalize(posting.Location) || location == normalize(posting.District)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
