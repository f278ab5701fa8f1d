package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const msPerDay = 86_400_000

// maxAbsMillis bounds serial dates to ±100,000,000 days around the Unix epoch.
const maxAbsMillis = 8.64e15

// SpreadsheetEpoch is day zero of spreadsheet serial dates.
var SpreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
}

// CoerceDate converts a raw cell to a UTC instant. Numbers are serial days
// since SpreadsheetEpoch; text is tried against the known layouts.
func CoerceDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case string:
		return parseDateText(val)
	}
	return time.Time{}, false
}

func fromSerial(days float64) (time.Time, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, false
	}
	ms := float64(SpreadsheetEpoch.UnixMilli()) + math.Round(days*msPerDay)
	if math.Abs(ms) > maxAbsMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	return time.Time{}, false
}
