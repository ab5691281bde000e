package rag

import (
	"cmp"
	"math"
	"slices"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// It returns 0 when either vector has zero magnitude. Extra components of the
// longer vector are ignored.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	for _, x := range a[n:] {
		normA += float64(x) * float64(x)
	}
	for _, y := range b[n:] {
		normB += float64(y) * float64(y)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every stored passage against query and returns the topK most
// similar, highest first. Equal scores keep their stored order.
func Rank(query []float32, stored []Passage, topK int) []Passage {
	if topK <= 0 || len(stored) == 0 {
		return []Passage{}
	}

	type scored struct {
		passage Passage
		score   float64
	}

	ranked := make([]scored, len(stored))
	for i, p := range stored {
		ranked[i] = scored{passage: p, score: CosineSimilarity(query, p.Embedding)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]Passage, 0, min(topK, len(ranked)))
	for _, s := range ranked[:min(topK, len(ranked))] {
		out = append(out, s.passage)
	}
	return out
}

// Texts returns the text of each passage in order.
func Texts(passages []Passage) []string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return texts
}
