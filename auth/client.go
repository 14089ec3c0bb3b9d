// Package auth emulates a browser session against backends that only offer
// a form login: it scrapes the CSRF token from the login page, posts the
// credentials, keeps the cookies, and logs in again when the session lapses.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/taisugar/toolkit/errdefs"
	"github.com/taisugar/toolkit/session"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

const csrfSelector = `meta[name="csrf-token"]`

// Config describes one backend.
type Config struct {
	// BaseURL is the backend root, e.g. "http://192.168.41.123:90/".
	BaseURL string
	// LoginPath is resolved against BaseURL. Empty means the backend needs no
	// login and every session is considered valid.
	LoginPath string
	Username  string
	Password  string
	// SessionCookies must all be present and unexpired for a session to be valid.
	SessionCookies []string
	Timeout        time.Duration
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Client issues business requests with a valid session. A Client must not be
// used by two goroutines at once while its session may be expired: both
// would log in, and the last token wins.
type Client struct {
	cfg     Config
	base    *url.URL
	session *session.Store
	http    *http.Client
}

// New builds a client with an empty session.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	store, err := session.NewStore()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		cfg:     cfg,
		base:    base,
		session: store,
		http: &http.Client{
			Transport: cfg.Transport,
			Jar:       store,
			Timeout:   timeout,
			// A login succeeds with a redirect and an expired session answers
			// business calls with one; both must be seen, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Session exposes the client's session store.
func (c *Client) Session() *session.Store {
	return c.session
}

func (c *Client) requiresLogin() bool {
	return c.cfg.LoginPath != ""
}

// URL resolves path against the backend root.
func (c *Client) URL(path string) string {
	return c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")}).String()
}

// EnsureValidSession logs in when the session is missing or expired and
// reports whether it did. It logs in at most once per call.
func (c *Client) EnsureValidSession(ctx context.Context) (bool, error) {
	if !c.requiresLogin() || c.session.Valid(c.base, c.cfg.SessionCookies...) {
		return false, nil
	}

	c.session.Invalidate()
	if err := c.login(ctx); err != nil {
		return true, err
	}

	if !c.session.Valid(c.base, c.cfg.SessionCookies...) {
		c.session.Invalidate()
		return true, errdefs.ErrSessionRejected
	}
	return true, nil
}

func (c *Client) login(ctx context.Context) error {
	token, err := c.fetchCSRFToken(ctx)
	if err != nil {
		return err
	}

	loginURL := c.URL(c.cfg.LoginPath)
	form := url.Values{
		"_token":   {token},
		"user_id":  {c.cfg.Username},
		"password": {c.cfg.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &errdefs.TransportError{Method: http.MethodPost, URL: loginURL, Err: err}
	}
	drain(resp)

	if !isRedirect(resp.StatusCode) {
		return &errdefs.LoginFailedError{StatusCode: resp.StatusCode}
	}

	c.session.SetToken(token)
	return nil
}

func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	loginURL := c.URL(c.cfg.LoginPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return "", fmt.Errorf("build login page request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &errdefs.TransportError{Method: http.MethodGet, URL: loginURL, Err: err}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &errdefs.TransportError{Method: http.MethodGet, URL: loginURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", &errdefs.DecodeError{URL: loginURL, Err: err}
	}

	// First match wins; pages with several tags are not rejected.
	token, ok := doc.Find(csrfSelector).First().Attr("content")
	if !ok || token == "" {
		return "", errdefs.ErrAuthTokenNotFound
	}
	return token, nil
}

// Token returns the CSRF token of the current session, or "".
func (c *Client) Token() string {
	token, _ := c.session.Token()
	return token
}

// Get issues a GET with query and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.URL(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, endpoint, out, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
}

// PostForm issues a form POST carrying the session's CSRF token as _token and
// decodes the JSON body into out.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	endpoint := c.URL(path)
	return c.do(ctx, endpoint, out, func() (*http.Request, error) {
		values := url.Values{}
		for k, v := range form {
			values[k] = v
		}
		if token := c.Token(); token != "" {
			values.Set("_token", token)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

func (c *Client) do(ctx context.Context, endpoint string, out any, build func() (*http.Request, error)) error {
	for attempt := 0; ; attempt++ {
		if _, err := c.EnsureValidSession(ctx); err != nil {
			return err
		}

		req, err := build()
		if err != nil {
			return fmt.Errorf("build request %s: %w", endpoint, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")

		resp, err := c.http.Do(req)
		if err != nil {
			return &errdefs.TransportError{Method: req.Method, URL: endpoint, Err: err}
		}

		if c.requiresLogin() && sessionExpired(resp.StatusCode) {
			drain(resp)
			if attempt == 0 {
				// The server dropped our session; log in again once.
				c.session.Invalidate()
				continue
			}
			return &errdefs.TransportError{Method: req.Method, URL: endpoint, StatusCode: resp.StatusCode}
		}

		return decode(resp, req.Method, endpoint, out)
	}
}

func decode(resp *http.Response, method, endpoint string, out any) error {
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errdefs.TransportError{Method: method, URL: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) {
			return &errdefs.TransportError{Method: method, URL: endpoint, Err: err}
		}
		return &errdefs.DecodeError{URL: endpoint, Err: err}
	}
	return nil
}

// sessionExpired matches what a Laravel style backend answers to a request
// with a dead session: a redirect to the login page, 401, or 419 (token
// mismatch).
func sessionExpired(status int) bool {
	return isRedirect(status) || status == http.StatusUnauthorized || status == 419
}

func isRedirect(status int) bool {
	return status >= 300 && status <= 399
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
