// Package local implements an offline provider.Provider. Embeddings are
// deterministic hashed bag-of-words vectors; completions return the grounding
// context without generating new text.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Dimensions is the length of every vector produced by Embed.
const Dimensions = 256

// Provider needs no network access.
type Provider struct{}

// New creates a Provider.
func New() *Provider { return &Provider{} }

// Embed hashes each lower-cased word into a bucket and L2-normalizes the
// counts. Texts without words map to a vector with a single bucket set so
// that every result has a non-zero norm.
func (p *Provider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = embed(text)
	}
	return out, nil
}

func embed(text string) []float32 {
	vec := make([]float32, Dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		vec[0] = 1
		return vec
	}

	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%Dimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// Complete echoes the context block of the user message.
func (p *Provider) Complete(_ context.Context, _, user string) (string, error) {
	const openMark, closeMark = "---\n", "\n---"
	start := strings.Index(user, openMark)
	end := strings.LastIndex(user, closeMark)
	if start < 0 || end <= start {
		return "No language model is configured.", nil
	}
	excerpt := strings.TrimSpace(user[start+len(openMark) : end])
	return "No language model is configured. Most relevant passages:\n\n" + excerpt, nil
}
