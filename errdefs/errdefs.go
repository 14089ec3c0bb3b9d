// Package errdefs holds the error kinds shared by the backend clients, the
// item-need decoder and the report projection. Callers match them with
// errors.Is and errors.As.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthTokenNotFound means the login page carried no csrf-token meta tag.
	ErrAuthTokenNotFound = errors.New("csrf token not found")

	// ErrSessionRejected means a fresh login still did not produce a valid session.
	ErrSessionRejected = errors.New("session rejected after login")

	// ErrDateParse means a date string does not have the expected shape.
	ErrDateParse = errors.New("date parse error")

	// ErrInvalidDate means a well formed date names a day that does not exist.
	ErrInvalidDate = errors.New("invalid date")

	ErrTemplateWorksheetMissing = errors.New("missing template worksheet")
	ErrFreebieNotFound          = errors.New("unable to find freebie in item needs")
	ErrEmptyItemNeeds           = errors.New("provided item needs are empty")
)

// TransportError reports a request that failed before a usable response was
// read: network failures and non-2xx statuses on plain fetches.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LoginFailedError reports a login POST that was not answered with a redirect.
type LoginFailedError struct {
	StatusCode int
}

func (e *LoginFailedError) Error() string {
	return fmt.Sprintf("login failed with status code %d", e.StatusCode)
}

// DecodeError reports a response body that reached us but does not match the
// expected schema.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
