// Package staffimport reads staff rosters from uploaded CSV or XLSX files.
// Both formats carry two columns: Name and IsUnder18.
package staffimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ErrUnsupportedFileType is returned before any parsing when the upload is
// neither CSV nor XLSX
var ErrUnsupportedFileType = errors.New("please select a valid CSV or XLSX file")

// Format is a supported roster file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SkippedRow records a row that did not produce a staff member
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing a roster file
type Result struct {
	Format  Format        `json:"format"`
	Staff   []db.NewStaff `json:"staff"`
	Skipped []SkippedRow  `json:"skipped"`
}

// DetectFormat decides the file format from its name and content. The
// extension wins when present; otherwise the content is sniffed.
func DetectFormat(filename string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case "", ".txt":
		// fall through to sniffing
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}

	detected := mimetype.Detect(content)
	switch {
	case detected.Is("text/csv"):
		return FormatCSV, nil
	case detected.Is(xlsxMIME):
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: detected %s", ErrUnsupportedFileType, detected.String())
}

// Parse validates the file type and parses the roster
func Parse(filename string, content []byte) (*Result, error) {
	format, err := DetectFormat(filename, content)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readCSV(bytes.NewReader(content))
	case FormatXLSX:
		rows, err = readXLSX(bytes.NewReader(content))
	}
	if err != nil {
		return nil, err
	}

	staff, skipped := FromRows(rows)
	return &Result{Format: format, Staff: staff, Skipped: skipped}, nil
}

// ParseCSV parses CSV roster text
func ParseCSV(r io.Reader) ([]db.NewStaff, []SkippedRow, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}
	staff, skipped := FromRows(rows)
	return staff, skipped, nil
}

// FromRows converts raw cells into staff. The first row is dropped only when
// it is a header (first cell "name"). Rows need at least two cells and a name.
func FromRows(rows [][]string) ([]db.NewStaff, []SkippedRow) {
	var staff []db.NewStaff
	var skipped []SkippedRow

	for i, row := range rows {
		line := i + 1
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = strings.TrimSpace(c)
		}

		if i == 0 && len(cells) > 0 && strings.EqualFold(cells[0], "name") {
			continue
		}
		if len(cells) == 0 || (len(cells) == 1 && cells[0] == "") {
			continue
		}
		if len(cells) < 2 {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "expected Name,IsUnder18"})
			continue
		}
		if cells[0] == "" {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "missing name"})
			continue
		}

		staff = append(staff, db.NewStaff{
			Name:      cells[0],
			IsUnder18: truthy(cells[1]),
		})
	}

	return staff, skipped
}

func truthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes"
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	return rows, nil
}
