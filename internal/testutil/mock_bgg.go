// Package testutil provides testing utilities for the BGG client.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock BGG endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBGG is a configurable mock XML API server for testing.
// Handlers are keyed by endpoint name ("thing", "collection", ...).
type MockBGG struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount  int
	endpointCount map[string]int
	lastQuery     url.Values
	lastHeader    http.Header
}

// NewMockBGG creates a new mock server.
func NewMockBGG() *MockBGG {
	mock := &MockBGG{
		handlers:      make(map[string]http.HandlerFunc),
		endpointCount: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.Trim(r.URL.Path, "/")

		mock.mu.Lock()
		mock.requestCount++
		mock.endpointCount[endpoint]++
		mock.lastQuery = r.URL.Query()
		mock.lastHeader = r.Header.Clone()
		handler, exists := mock.handlers[endpoint]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))

	return mock
}

// URL returns the mock server URL, usable as a client base URL.
func (m *MockBGG) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBGG) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBGG) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.endpointCount = make(map[string]int)
	m.lastQuery = nil
	m.lastHeader = nil
}

// SetHandler sets a custom handler for an endpoint.
func (m *MockBGG) SetHandler(endpoint string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[endpoint] = handler
}

// SetResponse answers every request to endpoint with resp.
func (m *MockBGG) SetResponse(endpoint string, resp MockResponse) {
	m.SetHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, r, resp)
	})
}

// SetSequence answers successive requests to endpoint with the given
// responses in order. The last response repeats once the list is used up.
func (m *MockBGG) SetSequence(endpoint string, responses ...MockResponse) {
	var (
		mu   sync.Mutex
		next int
	)
	m.SetHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[next]
		if next < len(responses)-1 {
			next++
		}
		mu.Unlock()
		writeResponse(w, r, resp)
	})
}

// SetPaged answers endpoint with pages[n-1] for ?page=n (page 1 when absent).
func (m *MockBGG) SetPaged(endpoint string, pages ...string) {
	m.SetHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			page = n
		}
		if page < 1 || page > len(pages) {
			writeResponse(w, r, NewXMLResponse(pages[len(pages)-1]))
			return
		}
		writeResponse(w, r, NewXMLResponse(pages[page-1]))
	})
}

// RequestCount returns the number of requests made to the server.
func (m *MockBGG) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// EndpointCount returns the number of requests made to one endpoint.
func (m *MockBGG) EndpointCount(endpoint string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.endpointCount[endpoint]
}

// LastQuery returns the query string of the most recent request.
func (m *MockBGG) LastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

// LastHeader returns the headers of the most recent request.
func (m *MockBGG) LastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp MockResponse) {
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewXMLResponse creates a 200 OK response carrying an XML payload.
func NewXMLResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "text/xml; charset=utf-8",
		},
	}
}

// NewAcceptedResponse creates the 202 a collection export answers while it is queued.
func NewAcceptedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusAccepted,
		Body:       `<?xml version="1.0" encoding="utf-8" standalone="yes"?><message>Your request for this collection has been accepted and will be processed.  Please try again later for access.</message>`,
		Headers: map[string]string{
			"Content-Type": "text/xml; charset=utf-8",
		},
	}
}

// NewStatusResponse creates an empty response with the given status.
func NewStatusResponse(status int) MockResponse {
	return MockResponse{StatusCode: status}
}
