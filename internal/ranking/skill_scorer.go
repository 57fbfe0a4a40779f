package ranking

import "github.com/hyperjump/talentmatch/internal/skills"

// MatchSkills compares required skills against a candidate's skills.
// matching is required ∩ candidate and missing is required − candidate, both in
// required's order. score is the matched share of required in [0, 100], and 100
// when nothing is required.
func MatchSkills(required, candidate skills.SkillSet) (score float64, matching, missing skills.SkillSet) {
	matching = required.Intersect(candidate)
	missing = required.Difference(candidate)
	if required.Len() == 0 {
		return 100, matching, missing
	}
	return 100 * float64(matching.Len()) / float64(required.Len()), matching, missing
}
