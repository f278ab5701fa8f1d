package normalize

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 10
)

// CoerceScore rounds a numeric cell to the nearest integer and clamps it to
// [MinScore, MaxScore]. Anything non-numeric is absent, never zero.
func CoerceScore(v any) (int, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Min(math.Max(math.Round(f), MinScore), MaxScore)
	return int(r), true
}
