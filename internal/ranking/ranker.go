// Package ranking scores and orders candidates against a job description.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/skills"
	"github.com/hyperjump/talentmatch/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MatchResult is one scored candidate. Scores are integers in [0, 100].
type MatchResult struct {
	Candidate      models.Candidate
	SkillMatch     int
	TextSimilarity int
	MatchScore     int
	MatchingSkills skills.SkillSet
	MissingSkills  skills.SkillSet

	skillScore float64
}

// Ranker combines skill overlap and text similarity into a single match score.
// A Ranker holds no per-call state and is safe for concurrent use.
type Ranker struct {
	config    *Config
	extractor *skills.Extractor
	logger    *zap.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithExtractor sets the skill extractor; the default uses the built-in vocabulary.
func WithExtractor(e *skills.Extractor) Option {
	return func(r *Ranker) {
		if e != nil {
			r.extractor = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Ranker) {
		r.logger = utils.OrNop(l)
	}
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *Config, opts ...Option) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()

	r := &Ranker{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.extractor == nil {
		r.extractor = skills.NewExtractor(nil)
	}
	return r
}

// GetConfig returns the ranking configuration.
func (r *Ranker) GetConfig() *Config {
	return r.config
}

// Extractor returns the skill extractor used for job descriptions and resumes.
func (r *Ranker) Extractor() *skills.Extractor {
	return r.extractor
}

// Rank scores every candidate against query and returns the skills required by
// the description together with the top query.Limit results, best first.
//
// Results are ordered by match score, then skill match, then candidate ID.
// candidates must be non-nil and query.Limit at least 1, otherwise
// ErrInvalidInput is returned. An empty pool is not an error. If ctx ends
// before scoring finishes, no results are returned.
func (r *Ranker) Rank(ctx context.Context, query models.JobQuery, candidates []models.Candidate) (skills.SkillSet, []MatchResult, error) {
	if query.Limit < 1 {
		return skills.SkillSet{}, nil, fmt.Errorf("%w: limit must be at least 1, got %d", ErrInvalidInput, query.Limit)
	}
	if candidates == nil {
		return skills.SkillSet{}, nil, fmt.Errorf("%w: candidate pool is nil", ErrInvalidInput)
	}

	start := time.Now()
	required := r.extractor.Extract(query.Description)
	queryVec := NewVector(query.Description)

	results := make([]MatchResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i := range candidates {
		if err := gctx.Err(); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.score(required, queryVec, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return skills.SkillSet{}, nil, fmt.Errorf("ranking aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return skills.SkillSet{}, nil, fmt.Errorf("ranking aborted: %w", err)
	}

	SortResults(results)
	results = TopN(results, query.Limit)

	r.logger.Debug("ranked candidates",
		zap.Int("pool", len(candidates)),
		zap.Int("returned", len(results)),
		zap.Strings("required", required.Items()),
		zap.Duration("elapsed", time.Since(start)))
	return required, results, nil
}

// score computes one candidate's result. It reads only its arguments.
func (r *Ranker) score(required skills.SkillSet, queryVec Vector, c models.Candidate) MatchResult {
	candidateSkills := r.candidateSkills(c)
	skillScore, matching, missing := MatchSkills(required, candidateSkills)
	textScore := 100 * Cosine(queryVec, NewVector(c.Resume))

	var combined float64
	if required.Len() == 0 {
		// A vacuous skill match says nothing about fit; rank on text alone.
		combined = textScore
	} else {
		combined = r.config.SkillWeight*skillScore + r.config.TextWeight*textScore
	}

	return MatchResult{
		Candidate:      c,
		SkillMatch:     utils.RoundPercent(skillScore),
		TextSimilarity: utils.RoundPercent(textScore),
		MatchScore:     utils.RoundPercent(combined),
		MatchingSkills: matching,
		MissingSkills:  missing,
		skillScore:     skillScore,
	}
}

// candidateSkills returns the cached skills of c in canonical form, or extracts
// them from the resume when none were cached.
func (r *Ranker) candidateSkills(c models.Candidate) skills.SkillSet {
	if len(c.Skills) > 0 {
		return r.extractor.Vocabulary().Canonicalize(c.Skills)
	}
	return r.extractor.Extract(c.Resume)
}

// SortResults orders results by match score descending, then skill match
// descending, then candidate ID ascending.
func SortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.skillScore != b.skillScore {
			return a.skillScore > b.skillScore
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}

// TopN returns the first n results.
func TopN(results []MatchResult, n int) []MatchResult {
	if n >= len(results) {
		return results
	}
	return results[:n]
}
