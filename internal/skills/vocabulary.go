package skills

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups related skills for resume analysis.
type Category string

const (
	CategoryBackend  Category = "backend"
	CategoryFrontend Category = "frontend"
	CategoryDevOps   Category = "devops"
	CategoryDatabase Category = "database"
	CategoryOther    Category = "other"
)

// Vocabulary is a flat lookup table from raw skill forms to canonical names.
//
// When the same raw form is registered for two canonical skills, the first
// registration wins and later ones are ignored. A Vocabulary is safe for
// concurrent reads once construction is finished.
type Vocabulary struct {
	forms      map[string]string // normalized raw form -> canonical name
	phrases    map[string]string // atom key of a raw form -> canonical name
	canonical  []string          // canonical names in registration order
	categories map[string]Category
	maxAtoms   int
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		forms:      make(map[string]string),
		phrases:    make(map[string]string),
		categories: make(map[string]Category),
	}
}

// Register adds a canonical skill and its synonyms. Forms already registered,
// as a canonical name or as a synonym, keep their first mapping. Returns the
// number of forms that were newly registered.
func (v *Vocabulary) Register(canonical string, synonyms ...string) int {
	canonical = strings.Join(strings.Fields(canonical), " ")
	if canonical == "" {
		return 0
	}
	added := 0
	if v.addForm(canonical, canonical) {
		v.canonical = append(v.canonical, canonical)
		added++
	}
	for _, syn := range synonyms {
		if v.addForm(syn, canonical) {
			added++
		}
	}
	return added
}

// RegisterCategory registers canonical with synonyms and tags it with cat.
func (v *Vocabulary) RegisterCategory(cat Category, canonical string, synonyms ...string) int {
	n := v.Register(canonical, synonyms...)
	if _, ok := v.categories[key(canonical)]; !ok && cat != "" {
		v.categories[key(canonical)] = cat
	}
	return n
}

func (v *Vocabulary) addForm(raw, canonical string) bool {
	k := key(raw)
	if k == "" {
		return false
	}
	if _, exists := v.forms[k]; exists {
		return false
	}
	v.forms[k] = canonical
	atoms := splitAtoms(k)
	v.phrases[atomKey(atoms)] = canonical
	if len(atoms) > v.maxAtoms {
		v.maxAtoms = len(atoms)
	}
	return true
}

// Lookup returns the canonical name for raw, ignoring case, surrounding
// whitespace and trailing sentence punctuation.
func (v *Vocabulary) Lookup(raw string) (string, bool) {
	k := key(raw)
	if c, ok := v.forms[k]; ok {
		return c, true
	}
	trimmed := strings.TrimLeft(strings.TrimRight(k, "./-_,;:!?"), "/-_")
	if trimmed == k || trimmed == "" {
		return "", false
	}
	c, ok := v.forms[trimmed]
	return c, ok
}

// Category returns the category of a canonical skill, or CategoryOther when untagged.
func (v *Vocabulary) Category(canonical string) Category {
	if c, ok := v.categories[key(canonical)]; ok {
		return c
	}
	return CategoryOther
}

// Skills returns the canonical names in registration order.
func (v *Vocabulary) Skills() []string {
	out := make([]string, len(v.canonical))
	copy(out, v.canonical)
	return out
}

// Len returns the number of canonical skills.
func (v *Vocabulary) Len() int {
	return len(v.canonical)
}

// Normalize returns the canonical skills mentioned in text.
func (v *Vocabulary) Normalize(text string) SkillSet {
	return NewExtractor(v).Extract(text)
}

// Canonicalize maps each name to its canonical form. Names the vocabulary does
// not know are kept as given.
func (v *Vocabulary) Canonicalize(names []string) SkillSet {
	var out SkillSet
	for _, n := range names {
		if c, ok := v.Lookup(n); ok {
			out.Add(c)
			continue
		}
		out.Add(n)
	}
	return out
}

// vocabularyFile is the YAML layout read by LoadVocabulary.
type vocabularyFile struct {
	// Extend keeps the built-in vocabulary and registers file entries after it.
	Extend bool             `yaml:"extend"`
	Skills []vocabularyItem `yaml:"skills"`
}

type vocabularyItem struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
	Category Category `yaml:"category"`
}

// LoadVocabulary reads a YAML vocabulary file:
//
//	extend: true
//	skills:
//	  - name: Go
//	    synonyms: [golang]
//	    category: backend
//
// With extend set, entries are registered after the built-in vocabulary, so
// built-in forms win on conflict.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	v := NewVocabulary()
	if f.Extend {
		v = DefaultVocabulary()
	}
	for i, item := range f.Skills {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("vocabulary entry %d has no name", i)
		}
		v.RegisterCategory(item.Category, item.Name, item.Synonyms...)
	}
	if v.Len() == 0 {
		return nil, fmt.Errorf("vocabulary %s defines no skills", path)
	}
	return v, nil
}
