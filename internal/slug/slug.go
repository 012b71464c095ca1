// Package slug builds URL-safe identifiers from titles
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Make produces, leaving room for a numeric suffix
const MaxLength = 200

// Make converts a title into a lowercase ASCII slug.
// Accents are folded ("Café" -> "cafe"), everything else that is not a letter or digit becomes a dash.
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// WithSuffix returns the n-th candidate for a slug: base for n <= 1, base-n otherwise
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Unique returns the first candidate of base, base-2, base-3... for which exists reports false.
// An empty base falls back to fallback.
func Unique(base, fallback string, exists func(string) (bool, error)) (string, error) {
	if base == "" {
		base = fallback
	}
	for n := 1; ; n++ {
		candidate := WithSuffix(base, n)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
