// Package cli renders talentmatch results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/talentmatch/internal/analysis"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const resumePreviewLen = 160

// ParseOutputFormat returns the format named by s; empty means OutputText.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact, or json)", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFindResults writes a ranking response to w in the given format.
func WriteFindResults(w io.Writer, resp *models.FindResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for i, c := range resp.Candidates {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", i+1, c.MatchScore, c.ID, c.Name)
		}
		return nil
	default:
		writeFindResultsText(w, resp)
		return nil
	}
}

func writeFindResultsText(w io.Writer, resp *models.FindResponse) {
	fmt.Fprintf(w, "\nRanked %d of %d candidates in %dms\n", resp.MatchedCandidates, resp.TotalCandidates, resp.QueryTime)
	fmt.Fprintf(w, "Job skills: %s\n\n", joinOrNone(resp.JobSkills))
	for i, c := range resp.Candidates {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "#%d %s <%s> (id %s)\n", i+1, c.Name, c.Email, c.ID)
		fmt.Fprintf(w, "Match: %d | Skills: %d | Text: %d\n", c.MatchScore, c.SkillMatch, c.TextSimilarity)
		fmt.Fprintf(w, "Matching: %s\n", joinOrNone(c.MatchingSkills))
		fmt.Fprintf(w, "Missing:  %s\n", joinOrNone(c.MissingSkills))
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(utils.CollapseWhitespace(c.Resume), resumePreviewLen))
	}
}

// WriteSearchResults writes keyword search hits to w in the given format.
func WriteSearchResults(w io.Writer, resp *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for _, h := range resp.Hits {
			fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", h.Rank, h.Score, h.Candidate.ID, h.Candidate.Name)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nFound %d candidates for %q in %dms\n\n", resp.Total, resp.Query, resp.QueryTime)
		for _, h := range resp.Hits {
			fmt.Fprintf(w, "%d. %s (id %s) score %.4f\n", h.Rank, h.Candidate.Name, h.Candidate.ID, h.Score)
			fmt.Fprintf(w, "   skills: %s\n", joinOrNone(h.Candidate.Skills))
		}
		return nil
	}
}

// WriteCandidates writes stored candidates to w in the given format.
func WriteCandidates(w io.Writer, list *models.CandidateList, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, list)
	case OutputCompact:
		for _, c := range list.Candidates {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, strings.Join(c.Skills, ","))
		}
		return nil
	default:
		fmt.Fprintf(w, "%d candidates (showing %d from offset %d)\n", list.Total, len(list.Candidates), list.Offset)
		for _, c := range list.Candidates {
			fmt.Fprintf(w, "- %s <%s> id=%s\n  skills: %s\n", c.Name, c.Email, c.ID, joinOrNone(c.Skills))
		}
		return nil
	}
}

// WriteSkills writes an extracted skill list to w in the given format.
func WriteSkills(w io.Writer, skills []string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if skills == nil {
			skills = []string{}
		}
		return writeJSON(w, map[string][]string{"skills": skills})
	case OutputCompact:
		fmt.Fprintln(w, strings.Join(skills, ","))
		return nil
	default:
		for _, s := range skills {
			fmt.Fprintln(w, s)
		}
		return nil
	}
}

// WriteAnalysis writes a resume analysis to w in the given format.
func WriteAnalysis(w io.Writer, a *analysis.Analysis, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, a)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%d\t%s\n", a.ExperienceLevel, a.JobMatchScore, strings.Join(a.ExtractedSkills, ","))
		return nil
	default:
		if a.TargetJobTitle != "" {
			fmt.Fprintf(w, "Target: %s\n", a.TargetJobTitle)
		}
		fmt.Fprintf(w, "Experience level: %s\n", a.ExperienceLevel)
		fmt.Fprintf(w, "In-demand match:  %d\n", a.JobMatchScore)
		fmt.Fprintf(w, "Skills:           %s\n", joinOrNone(a.ExtractedSkills))
		fmt.Fprintf(w, "Missing:          %s\n", joinOrNone(a.MissingSkills))
		writeBullets(w, "Strengths", a.Strengths)
		writeBullets(w, "Weaknesses", a.Weaknesses)
		writeBullets(w, "Suggestions", a.ImprovementSuggestions)
		return nil
	}
}

func writeBullets(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
