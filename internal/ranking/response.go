package ranking

import (
	"time"

	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/skills"
)

// Ranked converts m to its API form with alphabetically sorted skill lists.
func (m MatchResult) Ranked() models.RankedCandidate {
	return models.RankedCandidate{
		ID:             m.Candidate.ID,
		Name:           m.Candidate.Name,
		Email:          m.Candidate.Email,
		Resume:         m.Candidate.Resume,
		MatchScore:     m.MatchScore,
		SkillMatch:     m.SkillMatch,
		TextSimilarity: m.TextSimilarity,
		MatchingSkills: nonNil(m.MatchingSkills.Sorted()),
		MissingSkills:  nonNil(m.MissingSkills.Sorted()),
	}
}

// NewFindResponse builds the response for one Rank call over a pool of poolSize candidates.
func NewFindResponse(query models.JobQuery, required skills.SkillSet, results []MatchResult, poolSize int, elapsed time.Duration) *models.FindResponse {
	ranked := make([]models.RankedCandidate, len(results))
	for i, m := range results {
		ranked[i] = m.Ranked()
	}
	return &models.FindResponse{
		JobDescription:    query.Description,
		JobSkills:         nonNil(required.Sorted()),
		Candidates:        ranked,
		TotalCandidates:   poolSize,
		MatchedCandidates: len(ranked),
		QueryTime:         elapsed.Milliseconds(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
