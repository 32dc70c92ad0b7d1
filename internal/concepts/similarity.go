// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package concepts

import (
	"math"
	"strings"
)

// termVector is a term-frequency vector over lowercased word tokens.
type termVector map[string]float64

func vectorize(text string) termVector {
	v := make(termVector)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) < 3 {
			continue
		}
		v[w]++
	}
	return v
}

// cosine returns the cosine similarity of two term vectors in [0, 1].
func cosine(a, b termVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for w, x := range a {
		normA += x * x
		if y, ok := b[w]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		normB += y * y
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similarityMatches scores the publication context against every
// vocabulary entry and returns the entries whose similarity clears the
// threshold, with confidence equal to the similarity score. All input
// keywords are recorded as contributing, since the whole context drove
// the match.
func similarityMatches(keywords []string, title, abstract string, threshold float64) []scoredEntry {
	query := vectorize(title + " " + abstract + " " + strings.Join(keywords, " "))
	if len(query) == 0 {
		return nil
	}

	var out []scoredEntry
	for i := range vocabulary {
		e := &vocabulary[i]
		entryText := e.label + " " + e.definition + " " + strings.Join(e.alternatives, " ")
		if score := cosine(query, vectorize(entryText)); score > threshold {
			out = append(out, scoredEntry{entry: e, score: score})
		}
	}
	return out
}

// scoredEntry pairs a vocabulary entry with its similarity score.
type scoredEntry struct {
	entry *vocabEntry
	score float64
}
