package resolve

import (
	"github.com/agnivade/levenshtein"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
)

// Scorer rates the similarity of a raw mention against one candidate
// string on a 0..1 scale. Implementations must be deterministic.
type Scorer interface {
	Score(mention, candidate string) float64
}

// LevenshteinScorer scores normalized edit distance. Both inputs are
// normalized before comparison so case, punctuation and spacing variants
// of the same name score 1.0.
type LevenshteinScorer struct{}

func NewLevenshteinScorer() *LevenshteinScorer {
	return &LevenshteinScorer{}
}

func (s *LevenshteinScorer) Score(mention, candidate string) float64 {
	a := dimension.Normalize(mention)
	b := dimension.Normalize(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1 - float64(distance)/float64(longest)
}
