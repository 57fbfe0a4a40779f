package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const fileIDPrefix = "file:"

// FileID returns a stable candidate ID for the given absolute path.
func FileID(absolutePath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return fileIDPrefix + hex.EncodeToString(hash[:])
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// FindEmail returns the first email address in text, or "".
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// nameNoise are filename words dropped when deriving a candidate name.
var nameNoise = map[string]struct{}{
	"resume": {}, "cv": {}, "curriculum": {}, "vitae": {}, "final": {}, "updated": {},
}

// NameFromFilename derives a display name from a resume filename:
// "alice_johnson-resume.pdf" becomes "Alice Johnson".
func NameFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if _, noise := nameNoise[strings.ToLower(w)]; noise {
			continue
		}
		if strings.IndexFunc(w, unicode.IsLetter) < 0 {
			continue
		}
		parts = append(parts, capitalize(w))
	}
	if len(parts) == 0 {
		return base
	}
	return strings.Join(parts, " ")
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
