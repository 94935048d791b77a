// Package mwtest provides a fake MoneyWorks REST server for command tests.
package mwtest

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"ari/moneyworks-cli/internal/config"
	"ari/moneyworks-cli/internal/container"
	"ari/moneyworks-cli/internal/logging"
)

// DataFile is the document name Config points at.
const DataFile = "Acme Widgets.moneyworks"

// Request is what the server saw for one call.
type Request struct {
	Method     string
	RequestURI string
	Body       string
}

// Route answers requests whose RequestURI contains Match.
type Route struct {
	Match  string
	Status int
	Body   string
}

// Server is an httptest server with canned responses.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   []Route
	requests []Request
}

// NewServer starts a server that answers with the first matching route, or
// 404 when none matches. It is closed when the test ends.
func NewServer(t *testing.T, routes ...Route) *Server {
	t.Helper()
	s := &Server{routes: routes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, RequestURI: r.RequestURI, Body: string(body)})
	routes := s.routes
	s.mu.Unlock()

	for _, route := range routes {
		if strings.Contains(r.RequestURI, route.Match) {
			status := route.Status
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			_, _ = io.WriteString(w, route.Body)
			return
		}
	}
	http.Error(w, "no route", http.StatusNotFound)
}

// Requests returns a copy of the requests seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Config returns a configuration pointing at the server.
func (s *Server) Config(t *testing.T) *config.Config {
	t.Helper()
	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split server host: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse server port: %v", err)
	}
	return &config.Config{
		Server: config.Server{
			Host:           host,
			Port:           port,
			DataFile:       DataFile,
			Username:       "Admin",
			Scheme:         "http",
			TimeoutSeconds: 5,
		},
		Mail: config.Mail{MX: "localhost", SendFrom: "billing@acme"},
		Log:  config.Log{Level: "info", Format: "text"},
	}
}

// Container builds an application container against the server with a mock
// logger.
func (s *Server) Container(t *testing.T, opts ...container.Option) (*container.Container, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	c, err := container.NewContainer(s.Config(t), append([]container.Option{container.WithLogger(logger)}, opts...)...)
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	return c, logger
}
