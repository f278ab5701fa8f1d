package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Honorifics is a closed set of title tokens, lowercase and without the
// trailing period. Treat as read-only once built.
type Honorifics map[string]struct{}

func NewHonorifics(titles ...string) Honorifics {
	h := make(Honorifics, len(titles))
	for _, t := range titles {
		t = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(t)), ".")
		if t != "" {
			h[t] = struct{}{}
		}
	}
	return h
}

// DefaultHonorifics covers English titles and the Indonesian/Malay forms.
func DefaultHonorifics() Honorifics {
	return NewHonorifics(
		"ms", "mr", "mrs", "miss", "mx", "dr", "sir", "madam", "mdm", "madame", "prof",
		"pak", "bapak", "bu", "ibu", "cikgu", "encik", "puan", "tuan", "cik",
		"ustaz", "ustazah", "kak", "bang",
	)
}

func (h Honorifics) Is(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimRight(t, ".")
	_, ok := h[t]
	return ok
}

// Strip removes honorific tokens and rejoins the remainder with single spaces.
func (h Honorifics) Strip(name string) string {
	fields := strings.Fields(name)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if h.Is(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Tokens returns the lowercase, punctuation-free, honorific-free name tokens.
func (h Honorifics) Tokens(name string) []string {
	fields := strings.Fields(h.Strip(name))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeFullName(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeFullName lowercases s, folds diacritics and keeps only letters and
// digits of any script: "Siti Nur'aini" -> "sitinuraini".
func NormalizeFullName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
