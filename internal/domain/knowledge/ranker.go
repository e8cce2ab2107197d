package knowledge

import (
	"math"
	"sort"
)

// similarityEpsilon guards the cosine denominator so degenerate all-zero
// vectors score near zero instead of dividing by zero.
const similarityEpsilon = 1e-9

// Ranker orders a guild's knowledge entries by relevance to a query vector.
// The contract admits an indexed nearest-neighbor implementation later;
// callers never depend on the scan.
type Ranker interface {
	// Search returns at most topK entries most similar to query, best
	// first. Entries without an embedding are skipped; ties keep their
	// input order.
	Search(entries []*Entry, query []float64, topK int) []*Entry
}

// CosineRanker is a full-scan cosine-similarity ranker. O(n*d) per query,
// which is fine while knowledge sets are capped at tens of entries per plan.
type CosineRanker struct{}

func NewCosineRanker() *CosineRanker {
	return &CosineRanker{}
}

func (r *CosineRanker) Search(entries []*Entry, query []float64, topK int) []*Entry {
	if topK <= 0 || len(entries) == 0 || len(query) == 0 {
		return nil
	}

	type scored struct {
		entry *Entry
		sim   float64
	}

	candidates := make([]scored, 0, len(entries))
	for _, e := range entries {
		if !e.HasEmbedding() {
			continue
		}
		candidates = append(candidates, scored{entry: e, sim: CosineSimilarity(query, e.Embedding())})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	result := make([]*Entry, topK)
	for i := 0; i < topK; i++ {
		result[i] = candidates[i].entry
	}
	return result
}

// CosineSimilarity computes the cosine similarity of two vectors. Vectors of
// mismatched dimensionality score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + similarityEpsilon)
}
