// Package skills recognizes skill tokens in free text.
//
// A Vocabulary maps raw forms ("js", "golang", "k8s") to canonical skill names,
// an Extractor scans text against it, and SkillSet holds the result.
package skills

import (
	"sort"
	"strings"
)

// SkillSet is a case-insensitive, deduplicated set of skill names.
// Insertion order is preserved for display. The zero value is an empty set ready to use.
type SkillSet struct {
	items []string
	index map[string]struct{}
}

// NewSkillSet returns a set holding names, in order, with duplicates dropped.
func NewSkillSet(names ...string) SkillSet {
	var s SkillSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// key is the comparison form of a skill name.
func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Add inserts name, trimmed. Empty names and names already present (ignoring case) are skipped.
// Returns true if the set changed.
func (s *SkillSet) Add(name string) bool {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return false
	}
	k := key(name)
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.items = append(s.items, name)
	return true
}

// Contains reports whether name is in the set, ignoring case and surrounding whitespace.
func (s SkillSet) Contains(name string) bool {
	_, ok := s.index[key(name)]
	return ok
}

// Len returns the number of skills in the set.
func (s SkillSet) Len() int {
	return len(s.items)
}

// Items returns the skills in insertion order. The returned slice is a copy.
func (s SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the skills ordered alphabetically, ignoring case.
func (s SkillSet) Sorted() []string {
	out := s.Items()
	sort.Slice(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		if ki != kj {
			return ki < kj
		}
		return out[i] < out[j]
	})
	return out
}

// Intersect returns the skills of s that are also in other, in s's order.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	var out SkillSet
	for _, item := range s.items {
		if other.Contains(item) {
			out.Add(item)
		}
	}
	return out
}

// Difference returns the skills of s that are not in other, in s's order.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	var out SkillSet
	for _, item := range s.items {
		if !other.Contains(item) {
			out.Add(item)
		}
	}
	return out
}
