package sheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"checkin-importer/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSourceNotFound = errors.New("source spreadsheet not found")
	ErrEmptySheet     = errors.New("spreadsheet has no header row")
)

// Source is a fully loaded sheet: headers plus rows in source order.
type Source struct {
	ID      string
	Sheet   string
	Headers []string
	Rows    []models.RawRow
}

// NewSource builds an in-memory source. Row numbers start at 2, after the header.
func NewSource(id string, headers []string, rows [][]any) *Source {
	src := &Source{ID: id, Headers: headers, Rows: make([]models.RawRow, 0, len(rows))}
	for i, cells := range rows {
		aligned := make([]any, len(headers))
		copy(aligned, cells)
		src.Rows = append(src.Rows, models.RawRow{Number: i + 2, Headers: headers, Cells: aligned})
	}
	return src
}

// Load reads the first sheet of the workbook at path into memory.
func Load(path, sourceID string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat source %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readFirstSheet(f, sourceID)
}

func readFirstSheet(f *excelize.File, sourceID string) (*Source, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !blankStrings(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	src := &Source{ID: sourceID, Sheet: sheetName, Headers: headers}
	for r := headerIdx + 1; r < len(rows); r++ {
		cells := make([]any, len(headers))
		for c := range headers {
			if c >= len(rows[r]) {
				break
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			cells[c] = convertCell(rows[r][c], typ)
		}
		src.Rows = append(src.Rows, models.RawRow{Number: r + 1, Headers: headers, Cells: cells})
	}
	return src, nil
}

// convertCell keeps text cells as strings and turns numeric cells (including
// date-formatted serials) into float64.
func convertCell(raw string, typ excelize.CellType) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return s
	case excelize.CellTypeBool:
		return s == "1" || strings.EqualFold(s, "true")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func blankStrings(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
