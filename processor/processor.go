package processor

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/excel"
	"github.com/taisugar/toolkit/template"
)

// Processor applies registered template handlers to workbooks.
type Processor struct {
	registry *template.Registry
}

// New creates a Processor with the given template registry.
func New(registry *template.Registry) *Processor {
	return &Processor{registry: registry}
}

// Process rewrites every sheet of f in place.
func (p *Processor) Process(f *excelize.File) error {
	for _, sheet := range f.GetSheetList() {
		if err := p.processSheet(f, sheet); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	return nil
}

// ProcessBytes reads a workbook from raw bytes, processes all sheets, and
// returns the result as bytes.
func (p *Processor) ProcessBytes(data []byte) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open from bytes: %w", err)
	}
	defer f.Close()

	if err := p.Process(f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write to buffer: %w", err)
	}

	return buf.Bytes(), nil
}

// processSheet walks a snapshot of the sheet taken before any handler runs.
func (p *Processor) processSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("get rows: %w", err)
	}

	for row := range rows {
		for col, value := range rows[row] {
			if value == "" {
				continue
			}

			if _, err := p.registry.Process(f, sheet, row, col, value); err != nil {
				return fmt.Errorf("cell %s: %w", excel.CellName(row, col), err)
			}
		}
	}

	return nil
}
