package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/taisugar/toolkit/roc"
	"github.com/taisugar/toolkit/tscred"
)

type Freebie struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type OperationCenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Error struct {
	Error string `json:"error"`
}

// PurchaseOrderRequest is the body of POST /purchase-orders/{freebie}.
// Dates are "2025-10-14" or the ROC form "114-10-14"; empty fields take the
// order form defaults.
type PurchaseOrderRequest struct {
	OperationCenters []string `json:"operation_centers"`
	DepartmentID     string   `json:"department_id"`
	DisplayMode      string   `json:"display_mode"`
	Start            string   `json:"start"`
	End              string   `json:"end"`
	NotificationDate string   `json:"notification_date"`
	OrderNumber      string   `json:"order_number"`
}

// DeliveryRecordRequest is the body of POST /delivery-records/{freebie}.
type DeliveryRecordRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	ReportDate string `json:"report_date"`
	Format     string `json:"format"`
}

func parseDisplayMode(s string) (tscred.DisplayMode, error) {
	if s == "" {
		return 0, nil
	}
	return tscred.ParseDisplayMode(s)
}

// parseDate reads a Gregorian or ROC date. An empty string is the zero time.
func parseDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := roc.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
