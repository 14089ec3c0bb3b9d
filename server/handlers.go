package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/delivery"
	"github.com/taisugar/toolkit/errdefs"
	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/purchaseorder"
	"github.com/taisugar/toolkit/report"
	"github.com/taisugar/toolkit/tscred"
)

// Reporter is implemented by *report.Service.
type Reporter interface {
	OperationCenters(ctx context.Context) ([]tscred.OperationCenter, error)
	PurchaseOrder(ctx context.Context, req report.PurchaseOrderRequest) (*excelize.File, error)
	DeliveryRecord(ctx context.Context, req report.DeliveryRequest) (*delivery.Record, error)
}

type handler struct {
	reports Reporter
}

func newHandler(reports Reporter) *handler {
	return &handler{reports: reports}
}

func (h *handler) ListFreebies(w http.ResponseWriter, r *http.Request) {
	all := freebie.All()
	response := make([]Freebie, 0, len(all))
	for _, fb := range all {
		response = append(response, Freebie{Slug: fb.Slug(), Name: fb.Name(), Label: fb.Label()})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *handler) ListOperationCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.reports.OperationCenters(r.Context())
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	response := make([]OperationCenter, 0, len(centers))
	for _, c := range centers {
		response = append(response, OperationCenter{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *handler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	fb, err := freebie.Parse(chi.URLParam(r, "freebie"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	var body PurchaseOrderRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	req, err := purchaseOrderRequest(fb, body, time.Now())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	doc, err := h.reports.PurchaseOrder(r.Context(), req)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	defer doc.Close()

	buf, err := doc.WriteToBuffer()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeFile(w, r, report.PurchaseOrderFilename(fb, req.OrderNumber), report.XLSX.ContentType(), buf.Bytes())
}

func (h *handler) CreateDeliveryRecord(w http.ResponseWriter, r *http.Request) {
	fb, err := freebie.Parse(chi.URLParam(r, "freebie"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	var body DeliveryRecordRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	format, err := report.ParseFormat(body.Format)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if body.Month < 0 || body.Month > 12 {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("month %d out of range", body.Month))
		return
	}
	reportDate, err := parseDate("report_date", body.ReportDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	record, err := h.reports.DeliveryRecord(r.Context(), report.DeliveryRequest{
		Freebie:    fb,
		Year:       body.Year,
		Month:      time.Month(body.Month),
		ReportDate: reportDate,
	})
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteDelivery(&buf, record, format); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeFile(w, r, report.DeliveryFilename(record, format), format.ContentType(), buf.Bytes())
}

func purchaseOrderRequest(fb freebie.Freebie, body PurchaseOrderRequest, now time.Time) (report.PurchaseOrderRequest, error) {
	req := report.PurchaseOrderRequest{
		Freebie:          fb,
		OperationCenters: body.OperationCenters,
		DepartmentID:     body.DepartmentID,
		OrderNumber:      body.OrderNumber,
	}
	// The file name carries the order number.
	if req.OrderNumber == "" {
		req.OrderNumber = purchaseorder.DefaultOrderNumber(now)
	}

	var err error
	if req.DisplayMode, err = parseDisplayMode(body.DisplayMode); err != nil {
		return req, err
	}
	if req.Start, err = parseDate("start", body.Start); err != nil {
		return req, err
	}
	if req.End, err = parseDate("end", body.End); err != nil {
		return req, err
	}
	if req.NotificationDate, err = parseDate("notification_date", body.NotificationDate); err != nil {
		return req, err
	}
	if !req.Start.IsZero() && !req.End.IsZero() && req.End.Before(req.Start) {
		return req, errors.New("end is before start")
	}
	return req, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	var (
		transportErr *errdefs.TransportError
		loginErr     *errdefs.LoginFailedError
		decodeErr    *errdefs.DecodeError
	)
	switch {
	case errors.Is(err, errdefs.ErrEmptyItemNeeds), errors.Is(err, errdefs.ErrFreebieNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, report.ErrNoPurchaseSource),
		errors.Is(err, report.ErrTemplateUnavailable), errors.Is(err, errdefs.ErrTemplateWorksheetMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr), errors.As(err, &loginErr), errors.As(err, &decodeErr),
		errors.Is(err, errdefs.ErrSessionRejected), errors.Is(err, errdefs.ErrAuthTokenNotFound):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, Error{Error: err.Error()})
}

func writeFile(w http.ResponseWriter, r *http.Request, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("file", name).Msg("failed to write file")
	}
}
