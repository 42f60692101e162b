package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetSpec is one worksheet: a header row followed by data rows
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// NewWorkbook builds an XLSX file with one sheet per spec
func NewWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		if err := writeSheet(f, name, s, bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteWorkbook streams the workbook for sheets to w
func WriteWorkbook(w io.Writer, sheets []SheetSpec) error {
	f, err := NewWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, s SheetSpec, headerStyle int) error {
	for col, h := range s.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(name, cell, h); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	if len(s.Header) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
		_ = f.SetCellStyle(name, "A1", end, headerStyle)
		_ = f.AutoFilter(name, "A1:"+end, nil)
	}

	for r, row := range s.Rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(name, cell, val); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// width heuristic from the header and the first rows
	for c := 1; c <= len(s.Header); c++ {
		widest := len(s.Header[c-1])
		for r := 0; r < min(50, len(s.Rows)); r++ {
			if c-1 < len(s.Rows[r]) && len(s.Rows[r][c-1]) > widest {
				widest = len(s.Rows[r][c-1])
			}
		}
		w := float64(widest) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		colName, _ := excelize.ColumnNumberToName(c)
		_ = f.SetColWidth(name, colName, colName, w)
	}

	return nil
}
