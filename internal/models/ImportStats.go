package models

import "sort"

type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipNoUser          SkipReason = "no-user"
	SkipMissingRequired SkipReason = "missing-required"
	SkipDuplicate       SkipReason = "duplicate"
)

type UnmatchedRow struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ImportStats holds the counters of a single run. Created per run, never shared.
type ImportStats struct {
	RowsSeen               int  `json:"rows_seen"`
	RowsProcessed          int  `json:"rows_processed"`
	Inserted               int  `json:"inserted"`
	SkippedDuplicate       int  `json:"skipped_duplicate"`
	SkippedNoUser          int  `json:"skipped_no_user"`
	SkippedMissingRequired int  `json:"skipped_missing_required"`
	DryRun                 bool `json:"dry_run"`

	Unmatched      []UnmatchedRow `json:"unmatched"`
	UnmatchedLimit int            `json:"-"`
	LegacyLabels   map[string]int `json:"legacy_labels"`
}

func NewImportStats(unmatchedLimit int, dryRun bool) *ImportStats {
	return &ImportStats{
		DryRun:         dryRun,
		Unmatched:      make([]UnmatchedRow, 0),
		UnmatchedLimit: unmatchedLimit,
		LegacyLabels:   make(map[string]int),
	}
}

func (s *ImportStats) Skip(reason SkipReason) {
	switch reason {
	case SkipNoUser:
		s.SkippedNoUser++
	case SkipMissingRequired:
		s.SkippedMissingRequired++
	case SkipDuplicate:
		s.SkippedDuplicate++
	}
}

func (s *ImportStats) AddUnmatched(u UnmatchedRow) {
	if s.UnmatchedLimit > 0 && len(s.Unmatched) >= s.UnmatchedLimit {
		return
	}
	s.Unmatched = append(s.Unmatched, u)
}

func (s *ImportStats) AddLegacyLabel(label string) {
	if label == "" {
		return
	}
	s.LegacyLabels[label]++
}

// TopLegacyLabels returns up to n labels, most frequent first, ties by label.
func (s *ImportStats) TopLegacyLabels(n int) []LabelCount {
	out := make([]LabelCount, 0, len(s.LegacyLabels))
	for l, c := range s.LegacyLabels {
		out = append(out, LabelCount{Label: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *ImportStats) TopUnmatched(n int) []UnmatchedRow {
	if n >= 0 && len(s.Unmatched) > n {
		return s.Unmatched[:n]
	}
	return s.Unmatched
}

func (s *ImportStats) Skipped() int {
	return s.SkippedDuplicate + s.SkippedNoUser + s.SkippedMissingRequired
}
