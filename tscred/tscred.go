// Package tscred is the client of the TSCRED station system, which serves
// operation centers and item-need-count reports without a login.
package tscred

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/taisugar/toolkit/auth"
	"github.com/taisugar/toolkit/itemneeds"
)

const (
	DefaultBaseURL = "http://192.168.41.30/TSCRED/"

	operationCentersPath = "BulkPeriodSheet/CennoDropdownList"
	itemNeedsPath        = "ItemNeedCount/GetItemNeedCount"
	queryDateLayout      = "2006/01/02"
)

// DisplayMode selects how the item-need report is grouped.
type DisplayMode int

const (
	ByStation DisplayMode = 1
	ByDate    DisplayMode = 2
	Details   DisplayMode = 3
)

func (m DisplayMode) String() string {
	return strconv.Itoa(int(m))
}

// ParseDisplayMode accepts "station", "date", "details" or the numeric code.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "station", "1":
		return ByStation, nil
	case "date", "2":
		return ByDate, nil
	case "details", "3":
		return Details, nil
	}
	return 0, fmt.Errorf("unknown display mode %q", s)
}

// OperationCenter is one entry of the operation-center list.
type OperationCenter struct {
	ID   string `json:"Value"`
	Name string `json:"Text"`
}

// ItemNeedsQuery selects one item-need report.
type ItemNeedsQuery struct {
	OperationCenterID string
	DepartmentID      string
	Start             time.Time
	End               time.Time
	DisplayMode       DisplayMode
}

func (q ItemNeedsQuery) values() url.Values {
	mode := q.DisplayMode
	if mode == 0 {
		mode = ByStation
	}
	return url.Values{
		"CLANA":   {""},
		"CLANA2":  {q.OperationCenterID},
		"CLANO":   {q.Start.Format(queryDateLayout)},
		"CLANO2":  {q.End.Format(queryDateLayout)},
		"DSP_SEL": {mode.String()},
		"HOST":    {q.DepartmentID},
	}
}

// Config holds the backend address.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client queries TSCRED.
type Client struct {
	api *auth.Client
}

// New builds a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	api, err := auth.New(auth.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("tscred client: %w", err)
	}
	return &Client{api: api}, nil
}

// OperationCenters lists the operation centers.
func (c *Client) OperationCenters(ctx context.Context) ([]OperationCenter, error) {
	var centers []OperationCenter
	if err := c.api.Get(ctx, operationCentersPath, nil, &centers); err != nil {
		return nil, fmt.Errorf("operation centers: %w", err)
	}
	return centers, nil
}

// ItemNeeds fetches one item-need-count report.
func (c *Client) ItemNeeds(ctx context.Context, q ItemNeedsQuery) (*itemneeds.ItemNeeds, error) {
	var needs itemneeds.ItemNeeds
	if err := c.api.Get(ctx, itemNeedsPath, q.values(), &needs); err != nil {
		return nil, fmt.Errorf("item needs of %q: %w", q.OperationCenterID, err)
	}
	return &needs, nil
}
