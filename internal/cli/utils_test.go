package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/talentmatch/internal/analysis"
	"github.com/hyperjump/talentmatch/internal/models"
)

func sampleFindResponse() *models.FindResponse {
	return &models.FindResponse{
		JobSkills: []string{"Django", "Python"},
		Candidates: []models.RankedCandidate{
			{
				ID: "1", Name: "Alice Johnson", Email: "alice@example.com",
				Resume:     "Senior Python developer.\n\nDjango expert.",
				MatchScore: 88, SkillMatch: 100, TextSimilarity: 70,
				MatchingSkills: []string{"Django", "Python"},
				MissingSkills:  []string{},
			},
			{
				ID: "2", Name: "Bob Smith", Email: "bob@example.com",
				Resume:     "React developer",
				MatchScore: 5, SkillMatch: 0, TextSimilarity: 12,
				MatchingSkills: []string{},
				MissingSkills:  []string{"Django", "Python"},
			},
		},
		TotalCandidates:   4,
		MatchedCandidates: 2,
		QueryTime:         3,
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteFindResults_JSON(t *testing.T) {
	resp := sampleFindResponse()
	var buf bytes.Buffer
	if err := WriteFindResults(&buf, resp, OutputJSON); err != nil {
		t.Fatalf("WriteFindResults(json): %v", err)
	}
	var decoded models.FindResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Candidates) != 2 || decoded.Candidates[0].MatchScore != 88 {
		t.Errorf("decoded candidates = %+v", decoded.Candidates)
	}
}

func TestWriteFindResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFindResults(&buf, sampleFindResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Ranked 2 of 4 candidates",
		"Job skills: Django, Python",
		"#1 Alice Johnson <alice@example.com> (id 1)",
		"Match: 88 | Skills: 100 | Text: 70",
		"Missing:  (none)",
		"Senior Python developer. Django expert.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFindResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFindResults(&buf, sampleFindResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "1\t88\t1\tAlice Johnson\n2\t5\t2\tBob Smith\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteSearchResults(t *testing.T) {
	resp := &models.SearchResponse{
		Query: "kubernetes",
		Hits: []*models.SearchHit{
			{Rank: 1, Score: 1.5, Candidate: &models.Candidate{ID: "3", Name: "Carol Davis", Skills: []string{"Docker", "Kubernetes"}}},
		},
		Total: 1,
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1\t1.5000\t3\tCarol Davis\n" {
		t.Errorf("compact: got %q", buf.String())
	}
	buf.Reset()
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "skills: Docker, Kubernetes") {
		t.Errorf("text: got %q", buf.String())
	}
}

func TestWriteCandidatesAndSkills(t *testing.T) {
	list := &models.CandidateList{
		Candidates: []*models.Candidate{{ID: "4", Name: "David Wilson", Skills: []string{"Git", "Python"}}},
		Total:      4,
		Limit:      1,
	}
	var buf bytes.Buffer
	if err := WriteCandidates(&buf, list, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "4\tDavid Wilson\tGit,Python\n" {
		t.Errorf("candidates compact: got %q", buf.String())
	}

	buf.Reset()
	if err := WriteSkills(&buf, nil, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "{\n  \"skills\": []\n}" {
		t.Errorf("skills json: got %q", buf.String())
	}
}

func TestWriteAnalysis(t *testing.T) {
	a := &analysis.Analysis{
		ExtractedSkills:        []string{"Python"},
		Strengths:              []string{"Strong backend development skills"},
		Weaknesses:             []string{},
		MissingSkills:          []string{"AWS"},
		JobMatchScore:          7,
		ImprovementSuggestions: []string{"Learn cloud platforms like AWS, Azure, or GCP"},
		ExperienceLevel:        analysis.LevelBeginner,
	}
	var buf bytes.Buffer
	if err := WriteAnalysis(&buf, a, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Experience level: Beginner", "Strengths:", "  - Learn cloud platforms"} {
		if !strings.Contains(out, want) {
			t.Errorf("analysis output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Weaknesses:") {
		t.Errorf("empty section should be omitted:\n%s", out)
	}
}
