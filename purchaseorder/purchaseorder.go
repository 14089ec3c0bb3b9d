// Package purchaseorder projects item-need reports onto a freebie's weekly
// purchase-order template.
package purchaseorder

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/errdefs"
	"github.com/taisugar/toolkit/excel"
	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/itemneeds"
	"github.com/taisugar/toolkit/roc"
)

// Template layout shared by every freebie.
const (
	TemplateSheet = "template"

	StationColumn   = "A"
	QuantityColumn  = "C"
	FirstStationRow = 5
	LastStationRow  = 25
)

// Generate fills a copy of tmpl's template worksheet with the quantities the
// stations reported for fb. tmpl is only read. Nothing is built when a
// precondition fails: the worksheet must exist, sources must hold at least one
// row, and one of them must declare an item titled fb.Name().
//
// Quantities of stations not listed in the template are dropped. When a
// station appears in several rows, the last one wins.
func Generate(tmpl *excelize.File, sources []*itemneeds.ItemNeeds, fb freebie.Freebie, notificationDate time.Time, orderNumber string) (*excelize.File, error) {
	if !excel.HasSheet(tmpl, TemplateSheet) {
		return nil, errdefs.ErrTemplateWorksheetMissing
	}
	if countRows(sources) == 0 {
		return nil, errdefs.ErrEmptyItemNeeds
	}
	itemID, ok := resolveItemID(sources, fb.Name())
	if !ok {
		return nil, fmt.Errorf("%w: %s", errdefs.ErrFreebieNotFound, fb.Name())
	}

	doc, err := excel.CloneSheet(tmpl, TemplateSheet)
	if err != nil {
		return nil, fmt.Errorf("clone template: %w", err)
	}

	if err := fill(doc, sources, fb, itemID, notificationDate, orderNumber); err != nil {
		_ = doc.Close()
		return nil, err
	}
	return doc, nil
}

func fill(doc *excelize.File, sources []*itemneeds.ItemNeeds, fb freebie.Freebie, itemID string, notificationDate time.Time, orderNumber string) error {
	if err := doc.SetCellStr(TemplateSheet, fb.NotificationDateCell(), roc.Format(notificationDate, "/")); err != nil {
		return fmt.Errorf("set notification date: %w", err)
	}
	if err := doc.SetCellStr(TemplateSheet, fb.OrderNumberCell(), fb.OrderNumberValue(orderNumber)); err != nil {
		return fmt.Errorf("set order number: %w", err)
	}

	stations, err := excel.ScanLabels(doc, TemplateSheet, StationColumn, FirstStationRow, LastStationRow)
	if err != nil {
		return fmt.Errorf("scan stations: %w", err)
	}

	for i, source := range sources {
		if source == nil {
			continue
		}
		for need, err := range source.Rows() {
			if err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}

			row, mapped := stations[need.StationName]
			if !mapped {
				continue
			}
			count, ok := need.ItemCounts[itemID]
			if !ok {
				continue
			}

			cell := excel.Cell(QuantityColumn, row)
			if err := doc.SetCellUint(TemplateSheet, cell, count); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	return nil
}

func countRows(sources []*itemneeds.ItemNeeds) int {
	n := 0
	for _, s := range sources {
		if s != nil {
			n += s.Len()
		}
	}
	return n
}

// resolveItemID looks the title up source by source; the first match wins.
func resolveItemID(sources []*itemneeds.ItemNeeds, title string) (string, bool) {
	for _, s := range sources {
		if s == nil {
			continue
		}
		if item, ok := s.ItemByTitle(title); ok {
			return item.ID, true
		}
	}
	return "", false
}

// DefaultOrderNumber is "<month>-<week of month>", weeks counted from day 1
// in blocks of seven days.
func DefaultOrderNumber(now time.Time) string {
	return fmt.Sprintf("%d-%d", int(now.Month()), (now.Day()-1)/7+1)
}

// DefaultReportRange covers the seven days before now, inclusive of both ends.
func DefaultReportRange(now time.Time) (start, end time.Time) {
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -7), end
}
