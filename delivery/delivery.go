// Package delivery builds the monthly delivery statistics of a freebie from
// purchase records.
package delivery

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/roc"
)

// Line is one station's total for the month.
type Line struct {
	StationID   string
	StationName string
	Purchases   int
	Quantity    decimal.Decimal
	Amount      decimal.Decimal
}

// Record is the delivery statistics of one freebie for one month.
type Record struct {
	Freebie freebie.Freebie
	Year    int
	Month   time.Month
	// ReportDate is printed when set.
	ReportDate time.Time
	Lines      []Line
	// Purchases are the records behind Lines, by date then station.
	Purchases []dailynecessities.Purchase
}

// Aggregate sums the purchases of fb dated in the given month per station.
// A purchase belongs to fb when fb.MatchesProduct accepts its product name.
// Lines are ordered by station id.
func Aggregate(purchases []dailynecessities.Purchase, fb freebie.Freebie, year int, month time.Month) (*Record, error) {
	byStation := make(map[string]*Line)
	var matched []dailynecessities.Purchase
	for i, p := range purchases {
		if !fb.MatchesProduct(p.ProductName) {
			continue
		}
		if p.Date.Year() != year || p.Date.Month() != month {
			continue
		}

		qty, err := p.QuantityValue()
		if err != nil {
			return nil, fmt.Errorf("purchase %d: %w", i, err)
		}
		amount, err := p.AmountBeforeTaxValue()
		if err != nil {
			return nil, fmt.Errorf("purchase %d: %w", i, err)
		}

		line, ok := byStation[p.StationID]
		if !ok {
			line = &Line{StationID: p.StationID, StationName: p.StationName}
			byStation[p.StationID] = line
		}
		matched = append(matched, p)
		line.Purchases++
		line.Quantity = line.Quantity.Add(qty)
		line.Amount = line.Amount.Add(amount)
	}

	lines := make([]Line, 0, len(byStation))
	for _, line := range byStation {
		lines = append(lines, *line)
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return cmp.Compare(a.StationID, b.StationID)
	})

	slices.SortStableFunc(matched, func(a, b dailynecessities.Purchase) int {
		return cmp.Or(a.Date.Compare(b.Date.Time), cmp.Compare(a.StationID, b.StationID))
	})

	return &Record{Freebie: fb, Year: year, Month: month, Lines: lines, Purchases: matched}, nil
}

// TotalQuantity sums the quantities of all lines.
func (r *Record) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// TotalAmount sums the pre-tax amounts of all lines.
func (r *Record) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Title is the document heading, e.g. "礦泉水交貨統計表".
func (r *Record) Title() string {
	return r.Freebie.Label() + "交貨統計表"
}

// MonthLabel is the ROC month, e.g. "114年09月".
func (r *Record) MonthLabel() string {
	return roc.FormatMonth(r.Year, r.Month)
}

// ReportDateLabel is the ROC report date or "" when unset.
func (r *Record) ReportDateLabel() string {
	if r.ReportDate.IsZero() {
		return ""
	}
	return roc.Format(r.ReportDate, "/")
}
