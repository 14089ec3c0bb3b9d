// Package session keeps the authentication artifacts of one backend
// connection: the CSRF token scraped at login and the browser cookie jar.
package session

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Store is an http.CookieJar that also carries the CSRF token. A Store is
// either fully valid or treated as empty; Invalidate drops everything.
type Store struct {
	mu    sync.Mutex
	jar   *cookiejar.Jar
	token string
}

// NewStore returns an empty store.
func NewStore() (*Store, error) {
	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	return &Store{jar: jar}, nil
}

func newJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return jar, nil
}

// SetCookies implements http.CookieJar.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	jar := s.jar
	s.mu.Unlock()
	jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar. Expired cookies are never returned.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	jar := s.jar
	s.mu.Unlock()
	return jar.Cookies(u)
}

// Token returns the CSRF token and whether one is set.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// SetToken records the CSRF token of a successful login.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Valid reports whether every named cookie is present and unexpired for u
// and a token is set.
func (s *Store) Valid(u *url.URL, cookieNames ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return false
	}

	present := make(map[string]struct{})
	for _, c := range s.jar.Cookies(u) {
		present[c.Name] = struct{}{}
	}
	for _, name := range cookieNames {
		if _, ok := present[name]; !ok {
			return false
		}
	}
	return true
}

// Invalidate clears the token and every cookie.
func (s *Store) Invalidate() {
	jar, err := newJar()
	if err != nil {
		// cookiejar.New only fails on bad options; ours are fixed.
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jar = jar
	s.token = ""
}
