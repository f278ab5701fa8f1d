package models

import "strings"

// RawRow is one spreadsheet row: cells aligned with the sheet headers.
// Cell values are string, float64, time.Time or nil.
type RawRow struct {
	Number  int
	Headers []string
	Cells   []any
}

func (r RawRow) Get(header string) any {
	if header == "" {
		return nil
	}
	for i, h := range r.Headers {
		if h == header {
			if i < len(r.Cells) {
				return r.Cells[i]
			}
			return nil
		}
	}
	return nil
}

func (r RawRow) IsBlank() bool {
	for _, c := range r.Cells {
		switch v := c.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
