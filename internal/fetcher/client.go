// Package fetcher performs the outbound HTTP GET requests for every adapter.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"econfetch/internal/config"
	"econfetch/internal/logger"
	"econfetch/pkg/utils"
)

// Fetch errors. Every failure wraps ErrNetwork; non-2xx responses also wrap ErrUnexpectedStatusCode.
var (
	ErrNetwork              = errors.New("network error")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const (
	snippetLength = 200
)

// Request describes one GET call.
type Request struct {
	Query   map[string]string
	Headers map[string]string
	URL     string
}

// Response is a successful (2xx) reply.
type Response struct {
	Body       []byte
	StatusCode int
}

// Client issues GET requests with a bounded per-call timeout and no retries.
type Client struct {
	http    *resty.Client
	headers *utils.HTTPHelper
	strings *utils.StringHelper
	logger  *logger.Logger
}

// NewClient creates a client from the shared HTTP settings.
func NewClient(cfg config.HTTPConfig, log *logger.Logger) *Client {
	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSec * time.Second
	}

	return &Client{
		http:    resty.New().SetTimeout(timeout).SetRetryCount(0),
		headers: utils.NewHTTPHelper(cfg.UserAgent),
		strings: utils.NewStringHelper(),
		logger:  log,
	}
}

// Get fetches req.URL and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers.BuildHeaders(req.Headers)).
		SetQueryParams(req.Query).
		Get(req.URL)

	duration := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, req.URL, err)
	}

	c.logger.Debug("http response",
		"url", req.URL,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"duration", duration,
	)

	if !c.headers.IsSuccess(resp.StatusCode()) {
		return nil, fmt.Errorf("%w: %w: %d from %s: %s",
			ErrNetwork,
			ErrUnexpectedStatusCode,
			resp.StatusCode(),
			req.URL,
			c.strings.Snippet(resp.Body(), snippetLength),
		)
	}

	return &Response{
		Body:       resp.Body(),
		StatusCode: resp.StatusCode(),
	}, nil
}
