// Package providerhttptest provides helpers for testing provider adapters.
package providerhttptest

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrTransportUsed is returned by a SpyTransport that was told to fail.
var ErrTransportUsed = errors.New("providerhttptest: transport used")

// SpyTransport counts requests and either forwards them to Next or fails them.
type SpyTransport struct {
	// Next handles forwarded requests. When nil every request fails with ErrTransportUsed.
	Next http.RoundTripper

	calls    atomic.Int64
	mu       sync.Mutex
	last     *http.Request
	lastBody []byte
}

// RoundTrip implements http.RoundTripper.
func (s *SpyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls.Add(1)

	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
		req.Body = io.NopCloser(bytes.NewReader(b))
	}

	s.mu.Lock()
	s.last = req
	s.lastBody = body
	s.mu.Unlock()

	if s.Next == nil {
		return nil, ErrTransportUsed
	}
	return s.Next.RoundTrip(req)
}

// Calls returns the number of requests seen.
func (s *SpyTransport) Calls() int64 {
	return s.calls.Load()
}

// LastRequest returns the most recent request, or nil.
func (s *SpyTransport) LastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// LastBody returns the body of the most recent request.
func (s *SpyTransport) LastBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

// Client returns an *http.Client using the spy.
func (s *SpyTransport) Client() *http.Client {
	return &http.Client{Transport: s}
}

// FailingClient returns a client whose every request fails, plus the spy counting them.
func FailingClient() (*http.Client, *SpyTransport) {
	spy := &SpyTransport{}
	return spy.Client(), spy
}

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Respond returns a RoundTripper answering every request with status and body.
func Respond(status int, body string) http.RoundTripper {
	return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		return NewResponse(req, status, nil, body), nil
	})
}

// NewResponse builds a JSON response to req. Entries of header are added to the
// default Content-Type.
func NewResponse(req *http.Request, status int, header http.Header, body string) *http.Response {
	h := http.Header{"Content-Type": []string{"application/json"}}
	for k, v := range header {
		h[http.CanonicalHeaderKey(k)] = v
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

// RespondingClient returns a client answering every request with status and body,
// plus the spy recording them.
func RespondingClient(status int, body string) (*http.Client, *SpyTransport) {
	spy := &SpyTransport{Next: Respond(status, body)}
	return spy.Client(), spy
}
