package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// extractCat extracts text from OpenDocument text and RTF files.
func extractCat(content []byte, ext string) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return strings.TrimSpace(text), nil
}
