// Package keyword provides full-text search over the candidate pool.
package keyword

import (
	"context"

	"github.com/hyperjump/talentmatch/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// NameBoost multiplies the score of matches in the candidate name. Use 1.0 for no boost.
	NameBoost float64
	// Skills restricts hits to candidates having every listed skill.
	Skills []string
	// FuzzyEnabled enables matching within Fuzziness edits for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2). Default 1.
	Fuzziness int
}

// KeywordIndex defines keyword search operations over candidates.
type KeywordIndex interface {
	Index(ctx context.Context, c *models.Candidate) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error)
	Delete(ctx context.Context, id string) error
	// DocCount returns the total number of candidates in the index.
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}
