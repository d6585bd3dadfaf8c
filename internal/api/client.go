// Package api is the HTTP client for the marketplace REST backend.
//
// Request and response bodies belong to the backend; the client only knows
// enough about them to find records, tokens and error messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrNoBackend is returned when no base URL is available.
var ErrNoBackend = errors.New("backend URL is not configured (run `mkt backend set <url>`)")

// maxBodySize caps how much of a response the client will read.
const maxBodySize = 16 << 20

// Options configures a Client.
type Options struct {
	// BaseURL is consulted on every request so URL changes apply immediately.
	BaseURL func() string
	// Token returns the bearer token, or "" when signed out.
	Token func() string
	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client
	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit float64
	Logger    logrus.FieldLogger
	UserAgent string
}

// Client talks to the marketplace backend.
type Client struct {
	baseURL   func() string
	token     func() string
	http      *http.Client
	limiter   *rate.Limiter
	log       logrus.FieldLogger
	userAgent string
}

// New returns a Client.
func New(opts Options) *Client {
	c := &Client{
		baseURL:   opts.BaseURL,
		token:     opts.Token,
		http:      opts.HTTPClient,
		log:       opts.Logger,
		userAgent: opts.UserAgent,
	}
	if c.baseURL == nil {
		c.baseURL = func() string { return "" }
	}
	if c.token == nil {
		c.token = func() string { return "" }
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.userAgent == "" {
		c.userAgent = "mkt"
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the base URL requests would use right now.
func (c *Client) BaseURL() string {
	return strings.TrimSpace(c.baseURL())
}

// endpoint joins path onto the current base URL.
func (c *Client) endpoint(path string) (string, error) {
	base := c.BaseURL()
	if base == "" {
		return "", ErrNoBackend
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"), nil
}

// do performs one request and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	url, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        url,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, data, requestID)
	}
	return data, nil
}
