package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNoteLength = 500
	ellipsis      = "..."
)

// Text renders a raw cell as trimmed text. Numbers whose value is integral
// are printed without a fractional part so "12" and 12.0 read the same.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(val)
	case []byte:
		return strings.TrimSpace(string(val))
	}
	return ""
}

// SanitizeText trims v and caps it at MaxNoteLength runes. Empty is absent.
func SanitizeText(v any) (string, bool) {
	s := Text(v)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) <= MaxNoteLength {
		return s, true
	}
	keep := MaxNoteLength - len(ellipsis)
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis, true
}
