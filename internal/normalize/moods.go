package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const MaxMoods = 20

// ParseMoods splits a multi-valued mood cell into Title Case labels.
// "Happy, happy, EXCITED/senang" -> ["Happy", "Excited"].
func ParseMoods(v any) []string {
	raw := Text(v)
	out := make([]string, 0)
	if raw == "" {
		return out
	}

	title := cases.Title(language.Und)
	fold := cases.Fold()
	seen := make(map[string]struct{})

	entries := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if i := strings.Index(entry, "/"); i >= 0 {
			entry = entry[:i]
		}
		entry = strings.TrimFunc(entry, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if entry == "" {
			continue
		}
		label := titleSegments(title, entry)
		key := fold.String(label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
		if len(out) == MaxMoods {
			break
		}
	}
	return out
}

// titleSegments title-cases every whitespace or hyphen delimited segment,
// collapsing whitespace runs to a single space.
func titleSegments(c cases.Caser, s string) string {
	var b strings.Builder
	var seg strings.Builder
	flush := func() {
		if seg.Len() > 0 {
			b.WriteString(c.String(seg.String()))
			seg.Reset()
		}
	}
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
			pendingSpace = true
		case r == '-':
			flush()
			pendingSpace = false
			b.WriteRune(r)
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			seg.WriteRune(r)
		}
	}
	flush()
	return b.String()
}
