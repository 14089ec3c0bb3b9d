// Package dailynecessities is the client of the daily-necessities purchase
// system, a Laravel backstage reached with a form login.
package dailynecessities

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/taisugar/toolkit/auth"
)

const (
	DefaultBaseURL = "http://192.168.41.123:90/"

	loginPath        = "login"
	purchaseListPath = "backstage/purchase/list/search"
	dayLayout        = "20060102"
)

// SessionCookies are the cookies a logged-in session carries.
var SessionCookies = []string{"XSRF-TOKEN", "laravel_session"}

// Config holds the backend address and account.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// Client fetches purchase records.
type Client struct {
	api *auth.Client
}

// New builds a client. The first request logs in.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	api, err := auth.New(auth.Config{
		BaseURL:        cfg.BaseURL,
		LoginPath:      loginPath,
		Username:       cfg.Username,
		Password:       cfg.Password,
		SessionCookies: SessionCookies,
		Timeout:        cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("daily necessities client: %w", err)
	}
	return &Client{api: api}, nil
}

// PurchaseList returns the purchases dated between start and end inclusive.
func (c *Client) PurchaseList(ctx context.Context, start, end time.Time) (*PurchaseList, error) {
	form := url.Values{
		"startday": {start.Format(dayLayout)},
		"endday":   {end.Format(dayLayout)},
	}

	var list PurchaseList
	if err := c.api.PostForm(ctx, purchaseListPath, form, &list); err != nil {
		return nil, fmt.Errorf("purchase list %s-%s: %w", form.Get("startday"), form.Get("endday"), err)
	}
	return &list, nil
}
