// Package sample fabricates item-need reports and purchase-order templates
// so templates can be checked without access to the station network.
package sample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bxcodec/faker/v4"
	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/excel"
	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/itemneeds"
	"github.com/taisugar/toolkit/purchaseorder"
	"github.com/taisugar/toolkit/roc"
)

// Stations is the station column of the central region templates.
var Stations = []string{
	"成功嶺站", "嘉保站", "博學站", "柳林站", "台中港站", "大雅站", "潭子站",
	"豐原站", "后里站", "清水站", "沙鹿站", "梧棲站", "龍井站", "大肚站",
	"烏日站", "霧峰站", "太平站", "大里站", "東勢站", "新社站", "和平站",
}

// Options shapes a fabricated report.
type Options struct {
	// Decoys is the number of unrelated item columns mixed in.
	Decoys int
	// OrderDate is stamped on every row. Zero means today.
	OrderDate time.Time
	// Seed makes quantities reproducible. Zero picks a random seed.
	Seed uint64
}

// ItemNeeds returns a report with one row per station, one item column per
// freebie and opts.Decoys unrelated columns. Quantities are multiples of 10
// up to 100; roughly a third of the stations order nothing.
func ItemNeeds(stations []string, opts Options) *itemneeds.ItemNeeds {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	date := opts.OrderDate
	if date.IsZero() {
		date = time.Now()
	}

	columns := []itemneeds.DynamicColumn{{Field: itemneeds.StationNameKey, Title: "站名"}}
	for i, fb := range freebie.All() {
		columns = append(columns, itemneeds.DynamicColumn{Field: fmt.Sprintf("%sG%03d", itemneeds.ItemPrefix, i+1), Title: fb.Name()})
	}
	for i := range opts.Decoys {
		columns = append(columns, itemneeds.DynamicColumn{Field: fmt.Sprintf("%sD%03d", itemneeds.ItemPrefix, i+1), Title: faker.Word()})
	}

	data := make([][]itemneeds.KV, 0, len(stations))
	for _, station := range stations {
		row := []itemneeds.KV{
			{Key: itemneeds.StationNameKey, Value: itemneeds.StringValue(station)},
			{Key: itemneeds.OrderDateKey, Value: itemneeds.StringValue(roc.Format(date, "-"))},
		}
		for _, c := range columns {
			if !c.IsItem() {
				continue
			}
			row = append(row, itemneeds.KV{Key: c.Field, Value: itemneeds.NumberValue(quantity(rng))})
		}
		data = append(data, row)
	}

	return &itemneeds.ItemNeeds{DynamicColumns: columns, Data: data}
}

func quantity(rng *rand.Rand) uint64 {
	if rng.IntN(3) == 0 {
		return 0
	}
	return uint64(rng.IntN(10)+1) * 10
}

// Template builds a bare purchase-order template for fb with the station
// column filled in and zero quantities.
func Template(fb freebie.Freebie, stations []string) (*excelize.File, error) {
	if len(stations) > purchaseorder.LastStationRow-purchaseorder.FirstStationRow+1 {
		return nil, fmt.Errorf("%d stations do not fit the template", len(stations))
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", purchaseorder.TemplateSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := fillTemplate(f, fb, stations); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillTemplate(f *excelize.File, fb freebie.Freebie, stations []string) error {
	const sheet = purchaseorder.TemplateSheet

	cells := map[string]string{
		"A1": fb.Label() + "每週訂購單",
		excel.Cell(purchaseorder.StationColumn, purchaseorder.FirstStationRow-1):  "站名",
		excel.Cell(purchaseorder.QuantityColumn, purchaseorder.FirstStationRow-1): "數量",
	}
	for cell, v := range cells {
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}

	for i, station := range stations {
		row := purchaseorder.FirstStationRow + i
		if err := f.SetCellStr(sheet, excel.Cell(purchaseorder.StationColumn, row), station); err != nil {
			return err
		}
		if err := f.SetCellInt(sheet, excel.Cell(purchaseorder.QuantityColumn, row), 0); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, purchaseorder.StationColumn, purchaseorder.StationColumn, 14)
}

// TemplateStations reads the station labels of a purchase-order template in
// row order.
func TemplateStations(tmpl *excelize.File) ([]string, error) {
	labels, err := excel.ScanLabels(tmpl, purchaseorder.TemplateSheet, purchaseorder.StationColumn,
		purchaseorder.FirstStationRow, purchaseorder.LastStationRow)
	if err != nil {
		return nil, err
	}

	byRow := make(map[int]string, len(labels))
	for name, row := range labels {
		byRow[row] = name
	}
	stations := make([]string, 0, len(byRow))
	for row := purchaseorder.FirstStationRow; row <= purchaseorder.LastStationRow; row++ {
		if name, ok := byRow[row]; ok {
			stations = append(stations, name)
		}
	}
	return stations, nil
}
