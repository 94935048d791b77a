// Package client talks to a MoneyWorks Datacentre server over its REST
// interface. Every method issues exactly one HTTP request; there is no retry
// and no caching. A Client is immutable after New and safe for concurrent use
// as long as the underlying *http.Client is.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ari/moneyworks-cli/internal/config"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/mwerror"
)

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

// Client is a MoneyWorks REST client bound to one data file.
type Client struct {
	baseURL    string
	dataURL    string
	username   string
	password   string
	httpClient *http.Client
	log        logging.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Timeouts, proxies and
// TLS settings belong there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for the server and data file in cfg.
func New(cfg config.Server, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, &mwerror.ConfigError{Option: "mw_server.HOST"}
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return nil, &mwerror.ConfigError{Option: "mw_server.DATA_FILE"}
	}

	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	port := cfg.Port
	if port == 0 {
		port = 6710
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	base := scheme + "://" + net.JoinHostPort(cfg.Host, strconv.Itoa(port)) + "/REST/"

	c := &Client{
		baseURL:    base,
		dataURL:    base + url.QueryEscape(cfg.DataFile) + "/",
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the data-file scoped root every request except Version uses.
func (c *Client) BaseURL() string {
	return c.dataURL
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.baseURL+"version")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListForms returns the server's plain-text listing of form names.
func (c *Client) ListForms(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.dataURL+"list/folder=forms")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetCompanyEmail returns the email address of the Name record with the
// given code.
func (c *Client) GetCompanyEmail(ctx context.Context, companyCode string) (string, error) {
	path := "export/table=name" +
		"&search=" + url.QueryEscape("code=`"+companyCode+"`") +
		"&format=" + url.QueryEscape("[email]")
	body, err := c.get(ctx, c.dataURL+path)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PrintTransaction renders the records matching search with the named form
// and returns the document bytes (usually a PDF).
func (c *Client) PrintTransaction(ctx context.Context, search, form string) ([]byte, error) {
	path := "doform/form=" + url.QueryEscape(form) + "&search=" + url.QueryEscape(search)
	body, err := c.get(ctx, c.dataURL+path)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Document rendered",
		logging.F(logging.FieldForm, form),
		logging.F(logging.FieldBytes, len(body)))
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil)
}

func (c *Client) post(ctx context.Context, rawURL string, payload []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, rawURL, payload)
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &mwerror.TransportError{Method: method, URL: rawURL, Err: err}
	}
	req.SetBasicAuth(c.username, c.password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	}

	start := time.Now()
	c.log.Debug("Sending request",
		logging.F(logging.FieldMethod, method),
		logging.F(logging.FieldURL, rawURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &mwerror.TransportError{Method: method, URL: rawURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &mwerror.TransportError{Method: method, URL: rawURL,
			StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.log.Debug("Received response",
		logging.F(logging.FieldURL, rawURL),
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldBytes, len(data)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &mwerror.TransportError{
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       snippet(data),
		}
	}
	return data, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
