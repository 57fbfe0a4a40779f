package models

// RankedCandidate is one entry of a ranking response.
type RankedCandidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Resume         string   `json:"resume"`
	MatchScore     int      `json:"match_score"`
	SkillMatch     int      `json:"skill_match"`
	TextSimilarity int      `json:"text_similarity"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
}

// FindResponse is the response for a candidate ranking request.
type FindResponse struct {
	JobDescription    string            `json:"job_description"`
	JobSkills         []string          `json:"job_skills"`
	Candidates        []RankedCandidate `json:"candidates"`
	TotalCandidates   int               `json:"total_candidates"`
	MatchedCandidates int               `json:"matched_candidates"`
	QueryTime         int64             `json:"query_time_ms"`
}

// SearchHit is a keyword search match over stored candidates.
type SearchHit struct {
	Candidate *Candidate `json:"candidate"`
	Score     float64    `json:"score"`
	Rank      int        `json:"rank"`
}

// SearchResponse is the response for a candidate keyword search.
type SearchResponse struct {
	Query     string       `json:"query"`
	Hits      []*SearchHit `json:"hits"`
	Total     int          `json:"total"`
	QueryTime int64        `json:"query_time_ms"`
}
