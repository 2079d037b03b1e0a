package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"comma separated skills", "Python, Data Analysis", []string{"python", "data", "analysis"}},
		{"slash splits terms", "AI/ML", []string{"ai", "ml"}},
		{"single characters dropped", "C, R, Go", []string{"go"}},
		{"underscores kept", "power_bi excel", []string{"power_bi", "excel"}},
		{"whitespace only", "   \t ", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestSimilarity_SelfSimilarityIsMaximal(t *testing.T) {
	scores := Similarity("Python, Machine Learning", []string{"Python, Machine Learning"})
	require.Len(t, scores, 1)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestSimilarity_EmptyQueryReturnsZeros(t *testing.T) {
	scores := Similarity("", []string{"Python", "Java, Spring"})
	assert.Equal(t, []float64{0, 0}, scores)

	scores = Similarity("  ,  ", []string{"Python"})
	assert.Equal(t, []float64{0}, scores)
}

func TestSimilarity_EmptyCandidatesReturnZeros(t *testing.T) {
	scores := Similarity("Python", []string{"", "   ", ""})
	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestSimilarity_NoCandidates(t *testing.T) {
	scores := Similarity("Python", nil)
	assert.Empty(t, scores)
}

func TestSimilarity_NoOverlapScoresZero(t *testing.T) {
	scores := Similarity("Python", []string{"Python", "Accounting, Tally"})
	require.Len(t, scores, 2)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.Equal(t, 0.0, scores[1])
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	lower := Similarity("python, sql", []string{"Python, SQL, Excel"})
	upper := Similarity("PYTHON, SQL", []string{"python, sql, excel"})
	assert.Equal(t, lower, upper)
}

func TestSimilarity_KnownValue(t *testing.T) {
	// Corpus of two documents: "python" appears in both (idf 1), every other term once
	scores := Similarity("Python, Data Analysis", []string{"Python, AI, Machine Learning"})
	require.Len(t, scores, 1)

	w := math.Log(3.0/2.0) + 1
	expected := 1 / (math.Sqrt(1+2*w*w) * math.Sqrt(1+3*w*w))
	assert.InDelta(t, expected, scores[0], 1e-12)
}

func TestSimilarity_ScoresWithinUnitInterval(t *testing.T) {
	candidates := []string{
		"Python, Machine Learning, Deep Learning",
		"Excel, Accounting",
		"Python Python Python",
		"",
		"Data Analysis, SQL, Python",
	}
	for _, query := range []string{"Python", "python, sql, data", "Excel", "Rust"} {
		for _, score := range Similarity(query, candidates) {
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestSimilarity_MoreOverlapScoresHigher(t *testing.T) {
	scores := Similarity("Python, SQL, Data Analysis", []string{
		"Python",
		"Python, SQL, Data Analysis",
		"Marketing",
	})
	require.Len(t, scores, 3)
	assert.Greater(t, scores[1], scores[0])
	assert.Greater(t, scores[0], scores[2])
}

func TestCorpus_ReuseMatchesFreshSpace(t *testing.T) {
	candidates := []string{
		"Python, AI, Machine Learning",
		"Java, Spring Boot",
		"Data Analysis, Excel, Python",
		"",
	}
	corpus := NewCorpus(candidates)
	assert.Equal(t, len(candidates), corpus.Len())

	for _, query := range []string{"Python, Data Analysis", "Java", "Excel, Tally", ""} {
		assert.Equal(t, Similarity(query, candidates), corpus.Similarity(query), "query %q", query)
	}
}

func TestCorpus_Deterministic(t *testing.T) {
	corpus := NewCorpus([]string{"Go, Kubernetes, Docker", "Docker, Linux", "Networking"})
	first := corpus.Similarity("docker, go, linux")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, corpus.Similarity("docker, go, linux"))
	}
}
