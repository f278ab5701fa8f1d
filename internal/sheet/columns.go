package sheet

import (
	"fmt"
	"regexp"
	"strings"
)

type Field string

const (
	FieldTimestamp Field = "timestamp"
	FieldName      Field = "name"
	FieldMoods     Field = "moods"
	FieldDetails   Field = "details"
	FieldWeather   Field = "weather"
	FieldPresence  Field = "presence"
	FieldCapacity  Field = "capacity"
	FieldSupport   Field = "support"
	FieldEmail     Field = "email"
)

// MandatoryFields must all resolve or the run aborts before any row is read.
var MandatoryFields = []Field{FieldTimestamp, FieldName, FieldPresence, FieldCapacity}

type FieldPattern struct {
	Field   Field
	Pattern *regexp.Regexp
}

// DefaultFieldPatterns returns a fresh header pattern table for the legacy
// check-in form (English and Indonesian headers).
func DefaultFieldPatterns() []FieldPattern {
	return []FieldPattern{
		{FieldTimestamp, regexp.MustCompile(`(?i)timestamp|cap\s*waktu|submitted|tanggal`)},
		{FieldEmail, regexp.MustCompile(`(?i)e-?mail`)},
		{FieldName, regexp.MustCompile(`(?i)\bname\b|\bnama\b`)},
		{FieldMoods, regexp.MustCompile(`(?i)mood|feel|emotion|perasaan`)},
		{FieldDetails, regexp.MustCompile(`(?i)detail|note|tell us|cerita|catatan`)},
		{FieldWeather, regexp.MustCompile(`(?i)weather|cuaca`)},
		{FieldPresence, regexp.MustCompile(`(?i)presence|kehadiran`)},
		{FieldCapacity, regexp.MustCompile(`(?i)capacity|kapasitas`)},
		{FieldSupport, regexp.MustCompile(`(?i)support|talk to|reach out|dukungan`)},
	}
}

// ColumnMap maps a semantic field to the source header it was found under.
type ColumnMap map[Field]string

func (c ColumnMap) Header(f Field) string {
	return c[f]
}

func (c ColumnMap) Has(f Field) bool {
	_, ok := c[f]
	return ok
}

type SchemaResolutionError struct {
	Missing []Field
	Headers []string
}

func (e *SchemaResolutionError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("unable to resolve mandatory columns [%s] from headers %q",
		strings.Join(names, ", "), e.Headers)
}

// DiscoverColumns assigns each field the first header its pattern matches.
// A header already claimed by an earlier field is not reused.
func DiscoverColumns(headers []string, patterns []FieldPattern) (ColumnMap, error) {
	cols := make(ColumnMap, len(patterns))
	claimed := make(map[int]bool, len(headers))
	for _, fp := range patterns {
		for i, h := range headers {
			if claimed[i] || strings.TrimSpace(h) == "" {
				continue
			}
			if fp.Pattern.MatchString(h) {
				cols[fp.Field] = h
				claimed[i] = true
				break
			}
		}
	}

	var missing []Field
	for _, f := range MandatoryFields {
		if !cols.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaResolutionError{Missing: missing, Headers: headers}
	}
	return cols, nil
}
