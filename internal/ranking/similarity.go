package ranking

import (
	"math"
	"strings"
	"unicode"
)

// stopWords are dropped before building term vectors.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "all": {}, "also": {}, "am": {}, "an": {}, "and": {}, "any": {},
	"are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "but": {}, "by": {}, "can": {},
	"do": {}, "for": {}, "from": {}, "has": {}, "have": {}, "he": {}, "her": {}, "his": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "me": {},
	"my": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {}, "she": {}, "so": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "they": {}, "this": {},
	"to": {}, "us": {}, "was": {}, "we": {}, "were": {}, "will": {}, "with": {}, "you": {},
	"your": {},
}

// Vector is a term-frequency vector over a text.
type Vector struct {
	counts map[string]int
	norm   float64
}

// NewVector builds the term-frequency vector of text. Text is lowercased,
// punctuation is treated as whitespace and stop words are dropped.
func NewVector(text string) Vector {
	counts := make(map[string]int)
	for _, term := range Terms(text) {
		counts[term]++
	}
	var sq int
	for _, n := range counts {
		sq += n * n
	}
	return Vector{counts: counts, norm: math.Sqrt(float64(sq))}
}

// IsZero reports whether the vector has no terms.
func (v Vector) IsZero() bool {
	return len(v.counts) == 0
}

// Terms returns the lowercased, non-stop-word terms of text in order.
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// Cosine returns the cosine similarity of a and b in [0, 1], or 0 when either is zero.
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	small, large := a.counts, b.counts
	if len(large) < len(small) {
		small, large = large, small
	}
	// Integer dot product keeps the result independent of map order.
	var dot int
	for term, n := range small {
		dot += n * large[term]
	}
	if dot == 0 {
		return 0
	}
	sim := float64(dot) / (a.norm * b.norm)
	if sim > 1 {
		return 1
	}
	return sim
}

// Similarity returns the cosine similarity of the term-frequency vectors of a and b.
// It is symmetric, and 0 when either text has no terms.
func Similarity(a, b string) float64 {
	return Cosine(NewVector(a), NewVector(b))
}
