package template

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/excel"
)

// ---------- ReplaceHandler ----------

// ReplaceHandler accumulates key→value pairs and registers a single shared
// handler for all of them. Because the registry stops at the first matched
// handler per cell, sharing one handler replaces every pair in one pass, even
// when a cell holds several keys (e.g. "{{title}} {{month}}").
//
// Usage:
//
//	rh := template.NewReplaceHandler()
//	rh.Add("{{month}}", "114年09月")
//	rh.Add("{{title}}", "60抽面紙交貨統計表")
//	rh.Register(registry)
type ReplaceHandler struct {
	pairs []replacePair
}

type replacePair struct{ key, val string }

// NewReplaceHandler creates an empty ReplaceHandler.
func NewReplaceHandler() *ReplaceHandler {
	return &ReplaceHandler{}
}

// Add appends a key→val pair. Returns h so calls can be chained.
func (h *ReplaceHandler) Add(key, val string) *ReplaceHandler {
	h.pairs = append(h.pairs, replacePair{key, val})
	return h
}

// Register registers h into r for every key added via Add.
func (h *ReplaceHandler) Register(r *Registry) {
	for _, p := range h.pairs {
		r.Register(p.key, h.apply)
	}
}

func (h *ReplaceHandler) apply(f *excelize.File, sheet string, row, col int, value string) error {
	replaced := value
	for _, p := range h.pairs {
		replaced = strings.ReplaceAll(replaced, p.key, p.val)
	}
	return keepStyle(f, sheet, excel.CellName(row, col), func(cell string) error {
		return f.SetCellStr(sheet, cell, replaced)
	})
}

// ---------- RegisterValueHandler ----------

// RegisterValueHandler replaces a cell holding key with value, keeping its
// type: numbers stay numbers. The rest of the cell text is discarded.
func RegisterValueHandler(r *Registry, key string, value any) {
	r.Register(key, func(f *excelize.File, sheet string, row, col int, _ string) error {
		return keepStyle(f, sheet, excel.CellName(row, col), func(cell string) error {
			return f.SetCellValue(sheet, cell, value)
		})
	})
}

// ---------- RegisterTableHandler ----------

// RegisterTableHandler registers a handler that expands the row holding key
// into one row per entry of rows, starting at the placeholder's column.
// Strings are centered, integers and floats get number styles. An empty rows
// leaves a blank row behind.
//
// Rows below the placeholder shift down, so run this in its own pass after
// every other placeholder of the sheet is resolved.
func RegisterTableHandler(r *Registry, key string, rows [][]any) {
	r.Register(key, func(f *excelize.File, sheet string, row, col int, _ string) error {
		return writeTable(f, sheet, row, col, rows)
	})
}

func writeTable(f *excelize.File, sheet string, row, col int, rows [][]any) error {
	placeholder := excel.CellName(row, col)
	if len(rows) == 0 {
		return f.SetCellStr(sheet, placeholder, "")
	}

	if len(rows) > 1 {
		if err := f.InsertRows(sheet, row+2, len(rows)-1); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
	}

	sm := NewStyleManager(f)
	for i, values := range rows {
		for c, v := range values {
			cell := excel.CellName(row+i, col+c)
			if err := writeTableCell(f, sm, sheet, cell, v); err != nil {
				return fmt.Errorf("row %d col %d: %w", i, c, err)
			}
		}
	}

	return nil
}

func writeTableCell(f *excelize.File, sm *StyleManager, sheet, cell string, v any) error {
	styleID, err := sm.ValueStyle(v)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, styleID)
}

// ---------- helpers ----------

// keepStyle runs write on cell and restores the style the cell had before.
func keepStyle(f *excelize.File, sheet, cell string, write func(cell string) error) error {
	styleID, _ := f.GetCellStyle(sheet, cell)

	if err := write(cell); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}

	if styleID != 0 {
		if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
			return fmt.Errorf("restore style %s: %w", cell, err)
		}
	}

	return nil
}
