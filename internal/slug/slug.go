// Package slug derives URL-safe identifiers from Persian display names.
//
// Derivation is a pure character transform: Persian letters map to
// conventional Latin tokens, runs of whitespace and punctuation collapse
// into single hyphens, and everything else is dropped. The output alphabet
// is exactly [a-z0-9-], so Derive is idempotent over its own output.
package slug

import (
	"regexp"
	"strings"
)

var (
	persianRe = regexp.MustCompile(`^[\x{0600}-\x{06FF}\s]+$`)
	slugRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// tokens maps Persian/Arabic runes to Latin slug fragments. An empty
// fragment means the rune is dropped without acting as a separator
// (hamza, tatweel, combining diacritics).
var tokens = map[rune]string{
	'آ': "a", 'ا': "a", 'أ': "a", 'إ': "e",
	'ب': "b", 'پ': "p", 'ت': "t", 'ث': "s",
	'ج': "j", 'چ': "ch", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "z", 'ر': "r", 'ز': "z", 'ژ': "zh",
	'س': "s", 'ش': "sh", 'ص': "s", 'ض': "z",
	'ط': "t", 'ظ': "z", 'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "gh", 'ک': "k", 'ك': "k", 'گ': "g",
	'ل': "l", 'م': "m", 'ن': "n",
	'و': "o", 'ؤ': "o", 'ه': "h", 'ة': "h",
	'ی': "i", 'ي': "i", 'ئ': "i",
	'ء': "", 'ـ': "",
	'۰': "0", '۱': "1", '۲': "2", '۳': "3", '۴': "4",
	'۵': "5", '۶': "6", '۷': "7", '۸': "8", '۹': "9",
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
}

// Derive converts a display name into a lowercase ASCII slug. It returns
// an empty string when nothing in the input is convertible.
func Derive(name string) string {
	var b strings.Builder
	pendingSep := false

	write := func(tok string) {
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteString(tok)
	}

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			write(string(r))
		case r >= 'ً' && r <= 'ْ':
			// Combining diacritics carry no slug content.
		default:
			tok, ok := tokens[r]
			if !ok {
				// Whitespace, punctuation, ZWNJ: word boundary.
				pendingSep = true
				continue
			}
			if tok == "" {
				continue
			}
			write(tok)
		}
	}

	return b.String()
}

// IsPersian reports whether s consists entirely of Persian-block runes
// and whitespace. Empty input is not Persian.
func IsPersian(s string) bool {
	return persianRe.MatchString(s)
}

// IsSlug reports whether s is already in slug form.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}
