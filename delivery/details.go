package delivery

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/excel"
	"github.com/taisugar/toolkit/roc"
	"github.com/taisugar/toolkit/template"
)

// DetailSheet lists the purchases behind the station totals.
const DetailSheet = "明細"

var detailHeaders = []string{"日期", "站代號", "站名", "品號", "品名", "供應商", "單價", "數量", "未稅金額"}

var detailWidths = []float64{12, 10, 12, 10, 24, 14, 10, 10, 12}

// writeDetails adds DetailSheet to f with one row per purchase.
func (r *Record) writeDetails(f *excelize.File) error {
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return err
	}

	sm := template.NewStyleManager(f)
	if err := writeDetailHeaders(f, sm); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	if err := r.writeDetailRows(f, sm); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	for col, w := range detailWidths {
		name := excel.IndexToColumn(col)
		if err := f.SetColWidth(DetailSheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}

func writeDetailHeaders(f *excelize.File, sm *template.StyleManager) error {
	style, err := sm.Header()
	if err != nil {
		return err
	}

	for col, header := range detailHeaders {
		cell := excel.CellName(0, col)
		if err := f.SetCellStr(DetailSheet, cell, header); err != nil {
			return err
		}
	}
	last := excel.CellName(0, len(detailHeaders)-1)
	return f.SetCellStyle(DetailSheet, "A1", last, style)
}

func (r *Record) writeDetailRows(f *excelize.File, sm *template.StyleManager) error {
	for i, p := range r.Purchases {
		row := i + 1 // row 0 is headers

		price, err := p.PriceValue()
		if err != nil {
			return fmt.Errorf("purchase %d: %w", i, err)
		}
		qty, err := p.QuantityValue()
		if err != nil {
			return fmt.Errorf("purchase %d: %w", i, err)
		}
		amount, err := p.AmountBeforeTaxValue()
		if err != nil {
			return fmt.Errorf("purchase %d: %w", i, err)
		}

		supplier := ""
		if p.SupplierName != nil {
			supplier = *p.SupplierName
		}

		values := []any{
			roc.Format(p.Date.Time, "/"),
			p.StationID,
			p.StationName,
			p.ProductID,
			p.ProductName,
			supplier,
			price.InexactFloat64(),
			quantityValue(qty),
			amount.InexactFloat64(),
		}
		for col, val := range values {
			cell := excel.CellName(row, col)
			if err := writeDetailCell(f, sm, cell, val); err != nil {
				return fmt.Errorf("purchase %d, col %d: %w", i, col, err)
			}
		}
	}
	return nil
}

// writeDetailCell left-aligns text and gives numbers their number style.
func writeDetailCell(f *excelize.File, sm *template.StyleManager, cell string, v any) error {
	var (
		style int
		err   error
	)
	if _, ok := v.(string); ok {
		style, err = sm.Left()
	} else {
		style, err = sm.ValueStyle(v)
	}
	if err != nil {
		return err
	}

	if err := f.SetCellValue(DetailSheet, cell, v); err != nil {
		return err
	}
	return f.SetCellStyle(DetailSheet, cell, cell, style)
}
