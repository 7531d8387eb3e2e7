package feedapi

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// ContentType is sent with every feed request
const ContentType = "application/octet-stream"

// Client fetches feed files from the threat intelligence provider.
// A single Client is shared by all workers.
type Client struct {
	httpClient *http.Client
}

// Ensure Client implements port.FeedClient
var _ port.FeedClient = (*Client)(nil)

// ClientConfig contains optional client configuration
type ClientConfig struct {
	// RequestTimeout bounds a whole request including the body read (default: 10m)
	RequestTimeout time.Duration

	SkipTLSVerify bool

	// MaxConnsPerHost caps open connections to the provider (0 = no limit)
	MaxConnsPerHost int
}

// NewClient creates a new feed API client
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.SkipTLSVerify,
		},
		// Connection pooling
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		// Feeds are already gzip files
		DisableCompression: true,

		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	}

	return NewClientWithHTTPClient(&http.Client{
		Transport: transport,
		Timeout:   timeout,
	})
}

// NewClientWithHTTPClient wraps an existing http.Client
func NewClientWithHTTPClient(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Fetch performs the authenticated GET for a job
func (c *Client) Fetch(ctx context.Context, job domain.DownloadJob) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.RemoteURL, nil)
	if err != nil {
		return nil, domain.NewTransportError("create request", err)
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Authorization", job.AuthHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError("get", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()
		return nil, domain.NewHTTPError(resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}
