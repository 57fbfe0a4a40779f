// Package analysis summarizes a resume: skills found, strengths and gaps by
// skill category, and how it compares with a set of in-demand skills.
package analysis

import (
	"errors"
	"strings"

	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/skills"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// MinResumeLength is the shortest resume text, after trimming, that can be analyzed.
const MinResumeLength = 10

// maxMissingSkills caps the missing in-demand skills reported.
const maxMissingSkills = 10

// ErrResumeTooShort is returned for resume text shorter than MinResumeLength.
var ErrResumeTooShort = errors.New("resume text too short")

// DefaultInDemandSkills are compared against every analyzed resume.
var DefaultInDemandSkills = []string{
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"React", "Angular", "Vue", "Node.js", "Python", "Java",
	"CI/CD", "Microservices",
}

// Experience levels, by number of skills found.
const (
	LevelMid      = "Mid-level"
	LevelEntry    = "Entry-level"
	LevelBeginner = "Beginner"
)

// Analysis is the result of analyzing one resume.
type Analysis struct {
	ExtractedSkills        []string `json:"extracted_skills"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	MissingSkills          []string `json:"missing_skills"`
	JobMatchScore          int      `json:"job_match_score"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	ExperienceLevel        string   `json:"experience_level"`
	TargetJobTitle         string   `json:"target_job_title,omitempty"`
}

// Analyzer analyzes resumes against a vocabulary and an in-demand skill set.
type Analyzer struct {
	extractor *skills.Extractor
	inDemand  skills.SkillSet
}

// NewAnalyzer returns an analyzer. A nil extractor uses the built-in vocabulary;
// no inDemand skills means DefaultInDemandSkills.
func NewAnalyzer(extractor *skills.Extractor, inDemand ...string) *Analyzer {
	if extractor == nil {
		extractor = skills.NewExtractor(nil)
	}
	if len(inDemand) == 0 {
		inDemand = DefaultInDemandSkills
	}
	return &Analyzer{
		extractor: extractor,
		inDemand:  extractor.Vocabulary().Canonicalize(inDemand),
	}
}

// Analyze extracts skills from resume and scores them. targetJobTitle is
// echoed back when set.
func (a *Analyzer) Analyze(resume, targetJobTitle string) (*Analysis, error) {
	if len([]rune(strings.TrimSpace(resume))) < MinResumeLength {
		return nil, ErrResumeTooShort
	}

	found := a.extractor.Extract(resume)
	score, _, missing := ranking.MatchSkills(a.inDemand, found)

	missingSorted := missing.Sorted()
	if len(missingSorted) > maxMissingSkills {
		missingSorted = missingSorted[:maxMissingSkills]
	}

	strengths, weaknesses := a.strengths(found)
	return &Analysis{
		ExtractedSkills:        found.Sorted(),
		Strengths:              strengths,
		Weaknesses:             weaknesses,
		MissingSkills:          missingSorted,
		JobMatchScore:          utils.RoundPercent(score),
		ImprovementSuggestions: suggestions(found),
		ExperienceLevel:        ExperienceLevel(found.Len()),
		TargetJobTitle:         strings.TrimSpace(targetJobTitle),
	}, nil
}

func (a *Analyzer) strengths(found skills.SkillSet) (strengths, weaknesses []string) {
	has := make(map[skills.Category]bool)
	vocab := a.extractor.Vocabulary()
	for _, s := range found.Items() {
		has[vocab.Category(s)] = true
	}

	strengths = []string{}
	if has[skills.CategoryBackend] {
		strengths = append(strengths, "Strong backend development skills")
	}
	if has[skills.CategoryFrontend] {
		strengths = append(strengths, "Frontend development experience")
	}
	if has[skills.CategoryDevOps] {
		strengths = append(strengths, "DevOps and cloud platform knowledge")
	}
	if has[skills.CategoryDatabase] {
		strengths = append(strengths, "Database design and management experience")
	}

	weaknesses = []string{}
	if !has[skills.CategoryBackend] && !has[skills.CategoryFrontend] {
		weaknesses = append(weaknesses, "Limited programming language experience")
	}
	if !has[skills.CategoryDevOps] {
		weaknesses = append(weaknesses, "Limited cloud and deployment experience")
	}
	return strengths, weaknesses
}

func suggestions(found skills.SkillSet) []string {
	out := []string{}
	// Suggested until all three major platforms are listed.
	if !found.Contains("AWS") || !found.Contains("Azure") || !found.Contains("GCP") {
		out = append(out, "Learn cloud platforms like AWS, Azure, or GCP")
	}
	if !found.Contains("Docker") || !found.Contains("Kubernetes") {
		out = append(out, "Gain experience with containerization (Docker, Kubernetes)")
	}
	if !found.Contains("CI/CD") {
		out = append(out, "Improve your understanding of CI/CD pipelines")
	}
	if !found.Contains("Microservices") {
		out = append(out, "Learn about microservices architecture")
	}
	if len(out) == 0 {
		out = append(out, "Continue expanding your technical skill set")
	}
	return out
}

// ExperienceLevel maps a skill count to a coarse experience level.
func ExperienceLevel(skillCount int) string {
	switch {
	case skillCount >= 5:
		return LevelMid
	case skillCount >= 2:
		return LevelEntry
	default:
		return LevelBeginner
	}
}
