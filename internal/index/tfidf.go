package index

import (
	"math"
	"sort"
)

// vectorizer maps term counts into a fixed TF-IDF weight space. It is an
// immutable snapshot: a new vectorizer is built on every corpus mutation and
// swapped in atomically under the store lock.
type vectorizer struct {
	terms []string       // index -> term, stable ordering
	vocab map[string]int // term -> index
	idf   []float64      // smoothed inverse document frequency per term
}

// buildVectorizer derives the vocabulary and IDF weights from per-document
// term counts. When the natural vocabulary exceeds maxVocabulary, the most
// frequent terms across the corpus are kept (ties broken alphabetically).
func buildVectorizer(docCounts []map[string]int, maxVocabulary int) *vectorizer {
	df := make(map[string]int)
	totals := make(map[string]int)
	for _, counts := range docCounts {
		for term, n := range counts {
			df[term]++
			totals[term] += n
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if maxVocabulary > 0 && len(terms) > maxVocabulary {
		sort.Slice(terms, func(i, j int) bool {
			if totals[terms[i]] != totals[terms[j]] {
				return totals[terms[i]] > totals[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	v := &vectorizer{
		terms: terms,
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docCounts))
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// vectorize projects raw term counts into the TF-IDF space. Terms outside the
// vocabulary are dropped, contributing zero weight.
func (v *vectorizer) vectorize(counts map[string]int) []float64 {
	vec := make([]float64, len(v.terms))
	for term, n := range counts {
		if i, ok := v.vocab[term]; ok {
			vec[i] = float64(n) * v.idf[i]
		}
	}
	return vec
}

// l2Norm returns the Euclidean norm of vec.
func l2Norm(vec []float64) float64 {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine similarity of two vectors given their precomputed
// norms, clamped to [0, 1]. Returns 0 when either norm is zero.
func cosine(a []float64, aNorm float64, b []float64, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	sim := dot / (aNorm * bNorm)
	return math.Max(0, math.Min(1, sim))
}
