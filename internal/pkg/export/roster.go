package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Roster file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// RosterColumns is the column order of roster files
var RosterColumns = []string{
	"name", "studentId", "grade", "class", "dateOfBirth", "parentName", "contactNumber", "vaccinationStatus",
}

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")

// RosterRow is one student line of an import or export file
type RosterRow struct {
	Line              int    `col:"-" validate:"-"`
	Name              string `col:"name" validate:"required"`
	StudentID         string `col:"studentId" validate:"required"`
	Grade             string `col:"grade" validate:"required"`
	Class             string `col:"class"`
	DateOfBirth       string `col:"dateOfBirth"`
	ParentName        string `col:"parentName"`
	ContactNumber     string `col:"contactNumber"`
	VaccinationStatus string `col:"vaccinationStatus" validate:"omitempty,oneof=vaccinated partially_vaccinated not_vaccinated"`
}

func (r RosterRow) values() []string {
	return []string{r.Name, r.StudentID, r.Grade, r.Class, r.DateOfBirth, r.ParentName, r.ContactNumber, r.VaccinationStatus}
}

// FormatFromFilename maps a file extension to a roster format
func FormatFromFilename(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// ParseRoster reads roster rows from r. The first row is a header; columns are matched by
// name case-insensitively, so their order is free and unknown columns are ignored.
// Blank lines are skipped.
func ParseRoster(format string, r io.Reader) ([]RosterRow, error) {
	var records [][]string
	var err error

	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	index := map[string]int{}
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"name", "studentid", "grade"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(rec []string, column string) string {
		i, ok := index[strings.ToLower(column)]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]RosterRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, RosterRow{
			Line:              n + 2,
			Name:              cell(rec, "name"),
			StudentID:         cell(rec, "studentId"),
			Grade:             cell(rec, "grade"),
			Class:             cell(rec, "class"),
			DateOfBirth:       cell(rec, "dateOfBirth"),
			ParentName:        cell(rec, "parentName"),
			ContactNumber:     cell(rec, "contactNumber"),
			VaccinationStatus: cell(rec, "vaccinationStatus"),
		})
	}

	return rows, nil
}

// WriteRosterCSV writes rows with the header line
func WriteRosterCSV(w io.Writer, rows []RosterRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RosterColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRosterXLSX writes rows as a single-sheet workbook
func WriteRosterXLSX(w io.Writer, rows []RosterRow) error {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.values())
	}
	return WriteWorkbook(w, []SheetSpec{{Title: "Students", Header: RosterColumns, Rows: data}})
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
