package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor(nil)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n\t ", nil},
		{"no skills", "We value curiosity and teamwork.", nil},
		{"simple", "Python developer with SQL", []string{"Python", "SQL"}},
		{"case insensitive", "PYTHON and sql", []string{"Python", "SQL"}},
		{"deduplicates synonyms", "JavaScript, js and JS", []string{"JavaScript"}},
		{"symbols kept", "C++, C# and Node.js.", []string{"C++", "C#", "Node.js"}},
		{"slash skill", "Experience with CI/CD pipelines", []string{"CI/CD"}},
		{"slash list splits", "python/sql/docker", []string{"Python", "SQL", "Docker"}},
		{"sentence punctuation", "We use Go. Also Rust!", []string{"Go", "Rust"}},
		{"java is not javascript", "Java backend", []string{"Java"}},
		{"javascript is not java", "JavaScript frontend", []string{"JavaScript"}},
		{"multi word", "machine learning and deep learning", []string{"Machine Learning", "Deep Learning"}},
		{"three word synonym", "Amazon Web Services certified", []string{"AWS"}},
		{"hyphen splits", "react-native", []string{"React"}},
		{"dotted skill in slash list", "Node.js/Express", []string{"Node.js", "Express"}},
		{"slash list ending in dotted skill", "Python/Node.js", []string{"Python", "Node.js"}},
		{"two dotted skills", "React.js/Node.js", []string{"React", "Node.js"}},
		{"symbol skills in slash list", "C++/C#", []string{"C++", "C#"}},
		{"slash skill inside slash list", "CI/CD/Docker", []string{"CI/CD", "Docker"}},
		{"comma ends a phrase", "machine, learning", nil},
		{"semicolon ends a phrase", "deep; learning and Go", []string{"Go"}},
		{"phrase across line break", "machine\nlearning", []string{"Machine Learning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if tt.want == nil {
				assert.Equal(t, 0, got.Len())
				return
			}
			assert.Equal(t, tt.want, got.Items())
		})
	}
}

func TestExtractor_LongestMatchFirst(t *testing.T) {
	v := NewVocabulary()
	v.Register("Machine Learning")
	v.Register("Machine")
	v.Register("Learning")
	e := NewExtractor(v)

	got := e.Extract("applied machine learning research")
	assert.Equal(t, []string{"Machine Learning"}, got.Items())

	got = e.Extract("learning about the machine")
	assert.Equal(t, []string{"Learning", "Machine"}, got.Items())
}

func TestExtractor_RegisteredFormsWithSymbols(t *testing.T) {
	v := NewVocabulary()
	v.Register("ASP.NET Core", "aspnetcore")
	v.Register("R&D")
	v.Register("Objective-C")
	e := NewExtractor(v)

	tests := []struct {
		text string
		want []string
	}{
		{"We use ASP.NET Core daily", []string{"ASP.NET Core"}},
		{"R&D team", []string{"R&D"}},
		{"iOS apps in Objective-C.", []string{"Objective-C"}},
		{"asp.net, core", nil},
		{"R & D", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text)
			if tt.want == nil {
				assert.Equal(t, 0, got.Len())
				return
			}
			assert.Equal(t, tt.want, got.Items())
		})
	}
}

func TestExtractor_FirstRegistrationWinsInText(t *testing.T) {
	v := NewVocabulary()
	v.Register("Scala", "sc")
	v.Register("SuperCollider", "sc")
	got := NewExtractor(v).Extract("SC expert")
	assert.Equal(t, []string{"Scala"}, got.Items())
}

func TestExtractor_Pure(t *testing.T) {
	e := NewExtractor(nil)
	text := "Go, Kubernetes and PostgreSQL"
	first := e.Extract(text).Items()
	second := e.Extract(text).Items()
	assert.Equal(t, first, second)
}

func TestExtractor_Vocabulary(t *testing.T) {
	v := NewVocabulary()
	assert.Same(t, v, NewExtractor(v).Vocabulary())
	assert.NotNil(t, NewExtractor(nil).Vocabulary())
}
