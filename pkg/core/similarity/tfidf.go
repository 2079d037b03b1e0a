// Package similarity scores free text against a pool of candidate texts using
// TF-IDF vectors and cosine similarity.
//
// The vector space is built over the query plus every candidate, so inverse
// document frequencies are relative to the pool being scored rather than fixed.
package similarity

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Corpus holds the candidate side of a TF-IDF vector space.
//
// Term counts and document frequencies of the candidates are computed once;
// each Similarity call folds the query into the document frequencies, so the
// result is identical to building the whole space from scratch per query.
type Corpus struct {
	docs  []map[string]float64
	df    map[string]int
	terms []string // sorted candidate vocabulary
}

// NewCorpus precomputes term statistics for the candidate texts.
// Candidate order is preserved in the scores returned by Similarity.
func NewCorpus(candidates []string) *Corpus {
	c := &Corpus{
		docs: make([]map[string]float64, len(candidates)),
		df:   make(map[string]int),
	}

	for i, text := range candidates {
		counts := termCounts(text)
		c.docs[i] = counts
		for term := range counts {
			if c.df[term] == 0 {
				c.terms = append(c.terms, term)
			}
			c.df[term]++
		}
	}
	slices.Sort(c.terms)

	return c
}

// Len returns the number of candidates in the corpus
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Similarity returns the cosine similarity between the query and each candidate,
// in candidate order. Every score is in [0, 1].
// A query with no tokens, or a candidate with no tokens, scores 0.
func (c *Corpus) Similarity(query string) []float64 {
	scores := make([]float64, len(c.docs))

	queryCounts := termCounts(query)
	if len(queryCounts) == 0 || len(c.docs) == 0 {
		return scores
	}

	vocab := c.vocabulary(queryCounts)

	// Smoothed idf over the query plus all candidates: ln((1+n)/(1+df)) + 1
	n := float64(len(c.docs) + 1)
	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		df := c.df[term]
		if _, ok := queryCounts[term]; ok {
			df++
		}
		idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}

	queryVec := vectorize(queryCounts, vocab, idf)
	queryNorm := floats.Norm(queryVec, 2)
	if queryNorm == 0 {
		return scores
	}

	for i, doc := range c.docs {
		if len(doc) == 0 {
			continue
		}
		docVec := vectorize(doc, vocab, idf)
		docNorm := floats.Norm(docVec, 2)
		if docNorm == 0 {
			continue
		}
		scores[i] = clampUnit(floats.Dot(queryVec, docVec) / (queryNorm * docNorm))
	}

	return scores
}

// Similarity scores one query against candidates in a freshly built vector space
func Similarity(query string, candidates []string) []float64 {
	return NewCorpus(candidates).Similarity(query)
}

// vocabulary merges the candidate terms with any query-only terms, sorted so
// vector layout (and floating point summation order) is deterministic
func (c *Corpus) vocabulary(queryCounts map[string]float64) []string {
	vocab := slices.Clone(c.terms)
	for term := range queryCounts {
		if c.df[term] == 0 {
			vocab = append(vocab, term)
		}
	}
	slices.Sort(vocab)
	return vocab
}

func vectorize(counts map[string]float64, vocab []string, idf map[string]float64) []float64 {
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		if count, ok := counts[term]; ok {
			vec[i] = count * idf[term]
		}
	}
	return vec
}

// clampUnit absorbs rounding error that can push self-similarity past 1
func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
