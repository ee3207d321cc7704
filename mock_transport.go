package got

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// MockTransport provides a configurable http.RoundTripper for testing.
// It allows stubbing responses, including redirect chains, and
// verifying the requests (with bodies) that reached the wire.
type MockTransport struct {
	mu          sync.RWMutex
	stubs       []mockStub
	defaultStub *mockReply
	defaultErr  error
	requests    []*http.Request
	bodies      [][]byte
	requestHook func(*http.Request)
}

type mockStub struct {
	matcher func(*http.Request) bool
	reply   *mockReply
	err     error
}

type mockReply struct {
	statusCode int
	body       string
	header     http.Header
}

// NewMockTransport creates a MockTransport for testing.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// StubResponse stubs all unmatched requests to return the given
// response.
func (m *MockTransport) StubResponse(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultStub = &mockReply{statusCode: statusCode, body: body, header: make(http.Header)}
	return m
}

// StubJSON stubs all unmatched requests to return the given body with
// Content-Type: application/json.
func (m *MockTransport) StubJSON(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	m.defaultStub = &mockReply{statusCode: statusCode, body: body, header: header}
	return m
}

// StubError stubs all unmatched requests to return the given error.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
	return m
}

// StubPath stubs requests for path to return the given response.
func (m *MockTransport) StubPath(path string, statusCode int, body string) *MockTransport {
	return m.StubFunc(func(req *http.Request) bool {
		return req.URL.Path == path
	}, statusCode, body, nil)
}

// StubPathJSON stubs requests for path to return a JSON response.
func (m *MockTransport) StubPathJSON(path string, statusCode int, body string) *MockTransport {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return m.StubFunc(func(req *http.Request) bool {
		return req.URL.Path == path
	}, statusCode, body, header)
}

// StubRedirect stubs requests for path to answer with a redirect to
// location.
func (m *MockTransport) StubRedirect(path, location string, statusCode int) *MockTransport {
	header := make(http.Header)
	header.Set("Location", location)
	return m.StubFunc(func(req *http.Request) bool {
		return req.URL.Path == path
	}, statusCode, "", header)
}

// StubFunc stubs requests matching the predicate. First match wins.
func (m *MockTransport) StubFunc(
	matcher func(*http.Request) bool,
	statusCode int,
	body string,
	header http.Header,
) *MockTransport {
	if header == nil {
		header = make(http.Header)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{
		matcher: matcher,
		reply:   &mockReply{statusCode: statusCode, body: body, header: header},
	})
	return m
}

// StubFuncError stubs requests matching the predicate to fail with err.
func (m *MockTransport) StubFuncError(matcher func(*http.Request) bool, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{matcher: matcher, err: err})
	return m
}

// OnRequest sets a hook called for each request. Useful for capturing
// context values or asserting headers.
func (m *MockTransport) OnRequest(fn func(*http.Request)) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestHook = fn
	return m
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	hook := m.requestHook
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stubs {
		if s.matcher(req) {
			if s.err != nil {
				return nil, s.err
			}
			return s.reply.response(req), nil
		}
	}

	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	if m.defaultStub != nil {
		return m.defaultStub.response(req), nil
	}

	return nil, errors.New("no stub found for request: " + req.Method + " " + req.URL.String())
}

// Requests returns all requests made through this transport.
func (m *MockTransport) Requests() []*http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*http.Request{}, m.requests...)
}

// Bodies returns the recorded request bodies, in request order.
func (m *MockTransport) Bodies() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([][]byte{}, m.bodies...)
}

// RequestCount returns the number of requests made.
func (m *MockTransport) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockTransport) LastRequest() *http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Reset clears all recorded requests and stubs.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.bodies = nil
	m.stubs = nil
	m.defaultStub = nil
	m.defaultErr = nil
	m.requestHook = nil
}

func (r *mockReply) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    r.statusCode,
		Status:        fmt.Sprintf("%d %s", r.statusCode, http.StatusText(r.statusCode)),
		Header:        r.header.Clone(),
		Body:          io.NopCloser(bytes.NewBufferString(r.body)),
		ContentLength: int64(len(r.body)),
		Request:       req,
	}
}

// WithMockTransport is a convenience option to back a client with a
// mock transport.
func WithMockTransport(mock *MockTransport) Option {
	return func(cfg *internalConfig) {
		cfg.MockTransport = mock
	}
}
