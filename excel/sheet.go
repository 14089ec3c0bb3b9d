package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// HasSheet reports whether f contains a worksheet named sheet.
func HasSheet(f *excelize.File, sheet string) bool {
	idx, err := f.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// CloneSheet returns a new workbook holding a copy of one worksheet of src,
// with its styles, merges and column widths. src is not modified.
func CloneSheet(src *excelize.File, sheet string) (*excelize.File, error) {
	if !HasSheet(src, sheet) {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	buf, err := src.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	dst, err := excelize.OpenReader(buf)
	if err != nil {
		return nil, fmt.Errorf("reopen source: %w", err)
	}

	for _, name := range dst.GetSheetList() {
		if name == sheet {
			continue
		}
		if err := dst.DeleteSheet(name); err != nil {
			_ = dst.Close()
			return nil, fmt.Errorf("drop sheet %q: %w", name, err)
		}
	}

	idx, err := dst.GetSheetIndex(sheet)
	if err != nil {
		_ = dst.Close()
		return nil, fmt.Errorf("locate sheet %q: %w", sheet, err)
	}
	dst.SetActiveSheet(idx)

	return dst, nil
}

// ScanLabels reads the cells col+first … col+last and maps every non-empty
// value to its 1-based row. When a label repeats, its last occurrence wins.
func ScanLabels(f *excelize.File, sheet, col string, first, last int) (map[string]int, error) {
	colIdx, err := ColumnToIndex(col)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]int, last-first+1)
	for row := first; row <= last; row++ {
		cell := CellName(row-1, colIdx)
		value, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", cell, err)
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		labels[value] = row
	}
	return labels, nil
}
