package ranking

import (
	"testing"

	"github.com/hyperjump/talentmatch/internal/skills"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name         string
		required     []string
		candidate    []string
		wantScore    float64
		wantMatching []string
		wantMissing  []string
	}{
		{
			name:         "half matched",
			required:     []string{"Python", "SQL"},
			candidate:    []string{"Python"},
			wantScore:    50,
			wantMatching: []string{"Python"},
			wantMissing:  []string{"SQL"},
		},
		{
			name:         "nothing required is a vacuous match",
			required:     nil,
			candidate:    []string{"Go"},
			wantScore:    100,
			wantMatching: nil,
			wantMissing:  nil,
		},
		{
			name:         "nothing required and no skills",
			wantScore:    100,
			wantMatching: nil,
			wantMissing:  nil,
		},
		{
			name:         "no candidate skills",
			required:     []string{"Go", "Docker"},
			wantScore:    0,
			wantMatching: nil,
			wantMissing:  []string{"Go", "Docker"},
		},
		{
			name:         "case insensitive",
			required:     []string{"Go", "Docker", "AWS"},
			candidate:    []string{"docker", "aws", "rust"},
			wantScore:    200.0 / 3,
			wantMatching: []string{"Docker", "AWS"},
			wantMissing:  []string{"Go"},
		},
		{
			name:         "fully matched",
			required:     []string{"Go"},
			candidate:    []string{"Go", "Rust"},
			wantScore:    100,
			wantMatching: []string{"Go"},
			wantMissing:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			required := skills.NewSkillSet(tt.required...)
			score, matching, missing := MatchSkills(required, skills.NewSkillSet(tt.candidate...))
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			assertItems(t, "matching", matching, tt.wantMatching)
			assertItems(t, "missing", missing, tt.wantMissing)
			assertPartition(t, required, matching, missing)
		})
	}
}

func assertItems(t *testing.T, label string, got skills.SkillSet, want []string) {
	t.Helper()
	items := got.Items()
	if len(items) != len(want) {
		t.Fatalf("%s = %v, want %v", label, items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", label, i, items[i], want[i])
		}
	}
}

// assertPartition checks that matching and missing are disjoint and together equal required.
func assertPartition(t *testing.T, required, matching, missing skills.SkillSet) {
	t.Helper()
	for _, m := range matching.Items() {
		if missing.Contains(m) {
			t.Errorf("%q is both matching and missing", m)
		}
		if !required.Contains(m) {
			t.Errorf("matching %q not in required", m)
		}
	}
	for _, m := range missing.Items() {
		if !required.Contains(m) {
			t.Errorf("missing %q not in required", m)
		}
	}
	for _, r := range required.Items() {
		if !matching.Contains(r) && !missing.Contains(r) {
			t.Errorf("required %q in neither matching nor missing", r)
		}
	}
}
