package skills

import (
	"strings"
	"unicode"
)

// Extractor finds vocabulary skills in free text.
type Extractor struct {
	vocab *Vocabulary
}

// NewExtractor returns an extractor over vocab. A nil vocab uses DefaultVocabulary.
func NewExtractor(vocab *Vocabulary) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Extractor{vocab: vocab}
}

// Vocabulary returns the vocabulary the extractor matches against.
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// Extract returns the canonical skills mentioned in text, in order of first mention.
// The longest known form starting at each position wins, so "node.js" is one skill
// rather than "node" and "js", and "machine learning" consumes both words.
// Punctuation between words ends a phrase. Empty input yields an empty set.
func (e *Extractor) Extract(text string) SkillSet {
	var found SkillSet
	atoms := splitAtoms(text)
	for i := 0; i < len(atoms); {
		n := e.vocab.maxAtoms
		if rem := len(atoms) - i; n > rem {
			n = rem
		}
		matched := 0
		for ; n >= 1; n-- {
			if canonical, ok := e.vocab.phrases[atomKey(atoms[i:i+n])]; ok {
				found.Add(canonical)
				matched = n
				break
			}
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}
	return found
}

// atom is a run of letters and digits, or a single symbol such as '.', '+' or ','.
// glued reports that no whitespace separates it from the previous atom.
type atom struct {
	text  string
	glued bool
}

// splitAtoms lowercases s and splits it into atoms. Vocabulary forms and text
// go through the same split, so any registered form can be found in text.
func splitAtoms(s string) []atom {
	var (
		atoms []atom
		word  strings.Builder
		glued bool
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		atoms = append(atoms, atom{text: word.String(), glued: glued})
		word.Reset()
		glued = true
	}
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
			glued = false
		default:
			flush()
			atoms = append(atoms, atom{text: string(r), glued: glued})
			glued = true
		}
	}
	flush()
	return atoms
}

// atomKey encodes a sequence of atoms, keeping whether each pair was glued.
func atomKey(atoms []atom) string {
	var b strings.Builder
	for i, a := range atoms {
		if i > 0 {
			if a.glued {
				b.WriteByte(0)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(a.text)
	}
	return b.String()
}
