package delivery

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/taisugar/toolkit/processor"
	"github.com/taisugar/toolkit/template"
)

// Placeholders understood by Workbook.
const (
	KeyTitle         = "{{title}}"
	KeyMonth         = "{{month}}"
	KeyReportDate    = "{{report_date}}"
	KeyRows          = "{{rows}}"
	KeyTotalQuantity = "{{total_quantity}}"
	KeyTotalAmount   = "{{total_amount}}"
)

var header = []string{"站代號", "站名", "進貨筆數", "數量", "未稅金額"}

// DefaultTemplate returns the layout used when no template is supplied.
func DefaultTemplate() (*excelize.File, error) {
	const name = "交貨統計"
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}

	sm := template.NewStyleManager(f)
	headerStyle, err := sm.Header()
	if err != nil {
		return nil, err
	}

	cells := map[string]string{
		"A1": KeyTitle,
		"A2": "統計月份：" + KeyMonth,
		"D2": "報告日期：" + KeyReportDate,
		"A4": KeyRows,
		"A5": "合計",
		"D5": KeyTotalQuantity,
		"E5": KeyTotalAmount,
	}
	for cell, v := range cells {
		if err := f.SetCellStr(name, cell, v); err != nil {
			return nil, err
		}
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellStr(name, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(name, "A3", "E3", headerStyle); err != nil {
		return nil, err
	}
	if err := f.MergeCell(name, "A1", "E1"); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(name, "A", "E", 16); err != nil {
		return nil, err
	}
	return f, nil
}

// Workbook renders the record onto tmpl, or onto DefaultTemplate when tmpl is
// nil, and appends the DetailSheet. tmpl is only read.
func (r *Record) Workbook(tmpl *excelize.File) (*excelize.File, error) {
	if tmpl == nil {
		def, err := DefaultTemplate()
		if err != nil {
			return nil, fmt.Errorf("default template: %w", err)
		}
		defer def.Close()
		tmpl = def
	}

	buf, err := tmpl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	// Scalars first: the table pass moves every row below {{rows}}.
	data, err := processor.New(r.scalarRegistry()).ProcessBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("fill headings: %w", err)
	}
	data, err = processor.New(r.tableRegistry()).ProcessBytes(data)
	if err != nil {
		return nil, fmt.Errorf("fill rows: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := r.writeDetails(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("fill details: %w", err)
	}
	return f, nil
}

func (r *Record) scalarRegistry() *template.Registry {
	registry := template.New()
	template.RegisterValueHandler(registry, KeyTotalQuantity, quantityValue(r.TotalQuantity()))
	template.RegisterValueHandler(registry, KeyTotalAmount, r.TotalAmount().InexactFloat64())
	template.NewReplaceHandler().
		Add(KeyTitle, r.Title()).
		Add(KeyMonth, r.MonthLabel()).
		Add(KeyReportDate, r.ReportDateLabel()).
		Register(registry)
	return registry
}

func (r *Record) tableRegistry() *template.Registry {
	rows := make([][]any, len(r.Lines))
	for i, l := range r.Lines {
		rows[i] = []any{l.StationID, l.StationName, l.Purchases, quantityValue(l.Quantity), l.Amount.InexactFloat64()}
	}
	registry := template.New()
	template.RegisterTableHandler(registry, KeyRows, rows)
	return registry
}

// quantityValue keeps whole quantities integral so they get the integer
// number format; fractional ones are written in full.
func quantityValue(d decimal.Decimal) any {
	if d.IsInteger() {
		return d.IntPart()
	}
	return d.InexactFloat64()
}

// WriteCSV writes the record as Big5 encoded CSV with CRLF line endings.
func (r *Record) WriteCSV(w io.Writer) error {
	enc := transform.NewWriter(w, traditionalchinese.Big5.NewEncoder())
	cw := csv.NewWriter(enc)
	cw.UseCRLF = true

	records := [][]string{{r.Title(), r.MonthLabel(), r.ReportDateLabel()}, header}
	for _, l := range r.Lines {
		records = append(records, []string{
			l.StationID,
			l.StationName,
			fmt.Sprint(l.Purchases),
			l.Quantity.String(),
			l.Amount.StringFixed(2),
		})
	}
	records = append(records, []string{"合計", "", "", r.TotalQuantity().String(), r.TotalAmount().StringFixed(2)})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode big5: %w", err)
	}
	return nil
}
