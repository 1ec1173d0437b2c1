// Package bungie is the client for the Destiny 2 platform API.
package bungie

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"destiny2-go/internal/d2"
)

// DefaultBaseURL is the public platform root.
const DefaultBaseURL = "https://www.bungie.net"

// Client implements d2.API over HTTP. It is safe for concurrent use: every
// request is built from scratch and carries its own headers, so calls with
// different access tokens do not interfere.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	logger  d2.Logger
	tracer  d2.Tracer
	ids     d2.IDGenerator
	debug   atomic.Bool
}

var _ d2.API = (*Client)(nil)

// NewClient creates a client rooted at baseURL. httpClient may be nil, in
// which case http.DefaultClient is used. apiKey is sent as X-API-Key when set.
func NewClient(httpClient *http.Client, baseURL, apiKey string, logger d2.Logger, tracer d2.Tracer, ids d2.IDGenerator) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = d2.NewNopLogger()
	}
	if tracer == nil {
		tracer = d2.LoggerTracer{Logger: logger}
	}
	if ids == nil {
		ids = d2.UUIDGenerator{}
	}

	return &Client{
		http:    httpClient,
		baseURL: u,
		apiKey:  apiKey,
		logger:  logger,
		tracer:  tracer,
		ids:     ids,
	}, nil
}

// BaseURL returns the root the client resolves methods against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// DeserializationDebugging reports whether decode diagnostics are traced.
func (c *Client) DeserializationDebugging() bool {
	return c.debug.Load()
}

// SetDeserializationDebugging turns decode diagnostics on or off.
func (c *Client) SetDeserializationDebugging(on bool) {
	c.debug.Store(on)
}
