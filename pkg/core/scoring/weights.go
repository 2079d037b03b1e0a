package scoring

// AcademicScale is the maximum value of a student's academic score
type AcademicScale float64

const (
	// ScaleCGPA is a 10 point grade point average
	ScaleCGPA AcademicScale = 10

	// ScalePercentage is a 0-100 percentage
	ScalePercentage AcademicScale = 100
)

// Default matching weights
const (
	DefaultSkillWeightPct    = 80
	DefaultAcademicWeightPct = 10
	DefaultPreferenceBoost   = 10
	DefaultLocationBoost     = 8
)

// Weights controls how the score components are combined into a MatchScore.
//
// SkillWeightPct and AcademicWeightPct are not required to sum to 100. Whatever
// proportion they leave over is carried by the additive boosts.
type Weights struct {
	// SkillWeightPct scales the skill match percentage (0-100)
	SkillWeightPct float64

	// AcademicWeightPct scales the academic percentage (0-100)
	AcademicWeightPct float64

	// PreferenceBoost is added when the student's preferred sector matches the posting sector
	PreferenceBoost float64

	// LocationBoost is added when the student's location matches the posting location or district
	LocationBoost float64

	// AcademicScale declares whether academic scores are CGPA (10) or percentages (100)
	AcademicScale AcademicScale

	// ClampScore bounds the final MatchScore to [0, 100]
	ClampScore bool
}

// DefaultWeights returns the weights used when nothing is configured
func DefaultWeights() Weights {
	return Weights{
		SkillWeightPct:    DefaultSkillWeightPct,
		AcademicWeightPct: DefaultAcademicWeightPct,
		PreferenceBoost:   DefaultPreferenceBoost,
		LocationBoost:     DefaultLocationBoost,
		AcademicScale:     ScaleCGPA,
	}
}

// Normalize coerces out of range weights to the nearest safe value:
// percentages are clamped to [0, 100], negative boosts become 0 and an
// unrecognised academic scale falls back to CGPA.
func (w Weights) Normalize() Weights {
	w.SkillWeightPct = clamp(w.SkillWeightPct, 0, 100)
	w.AcademicWeightPct = clamp(w.AcademicWeightPct, 0, 100)
	w.PreferenceBoost = max(w.PreferenceBoost, 0)
	w.LocationBoost = max(w.LocationBoost, 0)
	if w.AcademicScale != ScaleCGPA && w.AcademicScale != ScalePercentage {
		w.AcademicScale = ScaleCGPA
	}
	return w
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
