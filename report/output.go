package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/taisugar/toolkit/delivery"
	"github.com/taisugar/toolkit/freebie"
)

// Format is an output file format for delivery statistics.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", XLSX:
		return XLSX, nil
	case CSV:
		return CSV, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=big5"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// PurchaseOrderFilename names a generated purchase order, e.g.
// "60抽面紙每週訂購單_10-3.xlsx".
func PurchaseOrderFilename(fb freebie.Freebie, orderNumber string) string {
	return fmt.Sprintf("%s每週訂購單_%s.xlsx", fb.Label(), sanitize(orderNumber))
}

// DeliveryFilename names a delivery record, e.g. "礦泉水交貨統計表_202509.csv".
func DeliveryFilename(r *delivery.Record, f Format) string {
	return fmt.Sprintf("%s_%d%02d.%s", r.Title(), r.Year, int(r.Month), f)
}

// WriteDelivery renders r in format f onto the default delivery template.
func WriteDelivery(w io.Writer, r *delivery.Record, f Format) error {
	if f == CSV {
		return r.WriteCSV(w)
	}

	wb, err := r.Workbook(nil)
	if err != nil {
		return err
	}
	defer wb.Close()
	return wb.Write(w)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, s)
}
