// Package restapi talks to the sales REST backend. Every call follows the
// same conventions: the session credential travels in the Authorization
// header, JSON lists may be bare arrays or paginated envelopes, and failures
// come back as *Error carrying a general message plus per-field messages.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

const (
	defaultScheme = "Token"
	maxBodyBytes  = 16 << 20
)

// Config describes how to reach the backend.
type Config struct {
	// BaseURL is the origin plus API prefix, e.g. http://localhost:8000/api/v1.
	BaseURL string
	// AuthScheme prefixes the credential in the Authorization header.
	AuthScheme string
	// Timeout bounds each request. Zero leaves the transport default.
	Timeout time.Duration
}

// Client is a thin HTTP client for the backend. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	scheme string
	hc     *http.Client
	log    zerolog.Logger
}

// New validates cfg and returns a Client. hc may be nil.
func New(cfg Config, hc *http.Client, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("restapi: invalid base url %q", cfg.BaseURL)
	}
	scheme := strings.TrimSpace(cfg.AuthScheme)
	if scheme == "" {
		scheme = defaultScheme
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: base, scheme: scheme, hc: hc, log: log}, nil
}

type request struct {
	op     string // completes "Failed to ..." in fallback messages
	method string
	path   string
	query  url.Values
	body   any
	cred   domain.Credential
	public bool
}

type response struct {
	status      int
	contentType string
	body        []byte
}

// send performs r. Authorized requests without a credential are never sent.
// Non-2xx answers are returned as *Error.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	if !r.public && r.cred == "" {
		return nil, domain.ErrNoCredential
	}

	u := c.base.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.8")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.public {
		req.Header.Set("Authorization", c.scheme+" "+string(r.cred))
	}

	resource := resourceOf(r.path)
	start := time.Now()
	resp, err := c.hc.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(resource, r.method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(resource, r.method, "transport_error").Inc()
		c.log.Warn().Err(err).Str("method", r.method).Str("path", u.Path).Msg("backend unreachable")
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(resource, r.method, "transport_error").Inc()
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrTransport, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(resource, r.method, statusClass(resp.StatusCode)).Inc()

	c.log.Debug().
		Str("method", r.method).
		Str("path", u.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(r.op, resp.StatusCode, raw)
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        raw,
	}, nil
}

// resourceOf returns the first path segment, used as a metric label.
func resourceOf(path string) string {
	seg, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if seg == "" {
		return "root"
	}
	return seg
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// Collection returns the generic CRUD surface rooted at path.
func Collection[T any](c *Client, name, path string) *Resource[T] {
	return &Resource[T]{c: c, name: name, path: strings.Trim(path, "/") + "/"}
}
