// Package report turns backend data into the documents the stations file:
// weekly purchase orders and monthly delivery statistics.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/delivery"
	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/itemneeds"
	"github.com/taisugar/toolkit/purchaseorder"
	"github.com/taisugar/toolkit/tscred"
)

// ErrNoPurchaseSource is returned for delivery statistics when no purchase
// system account is configured.
var ErrNoPurchaseSource = errors.New("purchase system not configured")

// ItemNeedsSource is the TSCRED side. *tscred.Client implements it.
type ItemNeedsSource interface {
	OperationCenters(ctx context.Context) ([]tscred.OperationCenter, error)
	ItemNeeds(ctx context.Context, q tscred.ItemNeedsQuery) (*itemneeds.ItemNeeds, error)
}

// PurchaseSource is the purchase system. *dailynecessities.Client implements it.
type PurchaseSource interface {
	PurchaseList(ctx context.Context, start, end time.Time) (*dailynecessities.PurchaseList, error)
}

type Dependencies struct {
	ItemNeeds ItemNeedsSource
	// Purchases may be nil; DeliveryRecord then fails.
	Purchases PurchaseSource
	Templates TemplateSource
}

type Service struct {
	deps Dependencies
	now  func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{deps: deps, now: time.Now}
}

// OperationCenters lists the operation centers known to TSCRED.
func (s *Service) OperationCenters(ctx context.Context) ([]tscred.OperationCenter, error) {
	return s.deps.ItemNeeds.OperationCenters(ctx)
}

// PurchaseOrderRequest describes one purchase order. Zero fields take the
// defaults of the order form: the last seven days, today's notification, the
// "<month>-<week>" order number, every operation center, and the per-station
// display.
type PurchaseOrderRequest struct {
	Freebie          freebie.Freebie
	OperationCenters []string
	DepartmentID     string
	DisplayMode      tscred.DisplayMode
	Start            time.Time
	End              time.Time
	NotificationDate time.Time
	OrderNumber      string
}

func (r PurchaseOrderRequest) withDefaults(now time.Time) PurchaseOrderRequest {
	if r.Start.IsZero() || r.End.IsZero() {
		r.Start, r.End = purchaseorder.DefaultReportRange(now)
	}
	if r.NotificationDate.IsZero() {
		r.NotificationDate = now
	}
	if r.OrderNumber == "" {
		r.OrderNumber = purchaseorder.DefaultOrderNumber(now)
	}
	if r.DisplayMode == 0 {
		r.DisplayMode = tscred.ByStation
	}
	return r
}

// PurchaseOrder fetches the item needs of every requested operation center
// and projects them onto the freebie's template.
func (s *Service) PurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*excelize.File, error) {
	logger := zerolog.Ctx(ctx)
	req = req.withDefaults(s.now())

	centers := req.OperationCenters
	if len(centers) == 0 {
		all, err := s.deps.ItemNeeds.OperationCenters(ctx)
		if err != nil {
			return nil, fmt.Errorf("list operation centers: %w", err)
		}
		for _, c := range all {
			centers = append(centers, c.ID)
		}
	}

	sources := make([]*itemneeds.ItemNeeds, 0, len(centers))
	for _, center := range centers {
		needs, err := s.deps.ItemNeeds.ItemNeeds(ctx, tscred.ItemNeedsQuery{
			OperationCenterID: center,
			DepartmentID:      req.DepartmentID,
			Start:             req.Start,
			End:               req.End,
			DisplayMode:       req.DisplayMode,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("operation_center", center).
			Int("rows", needs.Len()).
			Msg("fetched item needs")
		sources = append(sources, needs)
	}

	tmpl, err := s.deps.Templates.Open(req.Freebie)
	if err != nil {
		return nil, err
	}
	defer tmpl.Close()

	doc, err := purchaseorder.Generate(tmpl, sources, req.Freebie, req.NotificationDate, req.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("%s purchase order: %w", req.Freebie.Label(), err)
	}

	logger.Info().
		Str("freebie", req.Freebie.Slug()).
		Str("order_number", req.OrderNumber).
		Int("operation_centers", len(centers)).
		Msg("purchase order generated")
	return doc, nil
}

// DeliveryRequest selects one month of delivery statistics.
type DeliveryRequest struct {
	Freebie freebie.Freebie
	Year    int
	Month   time.Month
	// ReportDate is printed on the document when set.
	ReportDate time.Time
}

// DeliveryRecord fetches the month's purchases and aggregates them.
func (s *Service) DeliveryRecord(ctx context.Context, req DeliveryRequest) (*delivery.Record, error) {
	if s.deps.Purchases == nil {
		return nil, ErrNoPurchaseSource
	}
	if req.Year == 0 || req.Month == 0 {
		now := s.now()
		req.Year, req.Month = now.Year(), now.Month()
	}

	start := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	list, err := s.deps.Purchases.PurchaseList(ctx, start, end)
	if err != nil {
		return nil, err
	}

	record, err := delivery.Aggregate(list.All(), req.Freebie, req.Year, req.Month)
	if err != nil {
		return nil, fmt.Errorf("%s delivery record: %w", req.Freebie.Label(), err)
	}
	record.ReportDate = req.ReportDate

	zerolog.Ctx(ctx).Info().
		Str("freebie", req.Freebie.Slug()).
		Str("month", record.MonthLabel()).
		Int("purchases", len(list.All())).
		Int("stations", len(record.Lines)).
		Msg("delivery record aggregated")
	return record, nil
}
