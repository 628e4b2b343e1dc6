// Package peer talks to a remote analyzer service over HTTP so two
// codeinsight instances (or a compatible service) can compare results.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds how much of a peer response is read
const maxResponseBytes = 8 << 20

// AnalyzeRequest is the body POSTed to the peer's /api/analyze
type AnalyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// Client calls a remote analyzer with rate limiting and a per-call timeout
type Client struct {
	baseURL     string
	token       string
	timeout     time.Duration
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a peer client from configuration. A zero rate limit
// disables limiting.
func NewClient(cfg config.PeerConfig, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.ConfigErrorf("peer url is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if burst <= 0 {
		burst = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		token:       cfg.Token,
		timeout:     timeout,
		httpClient:  &http.Client{},
		rateLimiter: rate.NewLimiter(limit, burst),
		logger:      logger.With("component", "peer", "peer_url", cfg.URL),
	}, nil
}

// URL returns the peer base URL
func (c *Client) URL() string {
	return c.baseURL
}

// Analyze asks the peer to analyze code. Any failure (timeout, transport
// error, non-200 status, undecodable or empty body) is reported as
// ErrPeerUnavailable and no partial result is returned.
func (c *Client) Analyze(ctx context.Context, code, language string) (*models.AnalysisResult, error) {
	body, err := json.Marshal(AnalyzeRequest{Code: code, Language: language})
	if err != nil {
		return nil, errors.InternalErrorf("encode peer request: %v", err)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/analyze", body, &raw); err != nil {
		return nil, err
	}

	// null and {} decode cleanly into a zero result
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.PeerUnavailable(err, "decode peer response")
	}
	if len(fields) == 0 {
		return nil, errors.PeerUnavailable(nil, "empty peer response")
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.PeerUnavailable(err, "decode peer response")
	}
	return &result, nil
}

// Health checks that the peer answers /health
func (c *Client) Health(ctx context.Context) error {
	var status map[string]interface{}
	return c.do(ctx, http.MethodGet, "/health", nil, &status)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return errors.PeerUnavailable(err, "rate limiter")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.PeerUnavailable(err, "build peer request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("peer request failed", "path", path, "error", err)
		return errors.PeerUnavailable(err, "Failed to communicate with peer service")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.PeerUnavailable(err, "read peer response")
	}

	c.logger.Debug("peer request completed",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		return errors.PeerUnavailable(nil,
			fmt.Sprintf("peer returned status %d: %s", resp.StatusCode, snippet(data))).
			WithContext("status", resp.StatusCode)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return errors.PeerUnavailable(err, "decode peer response")
	}
	return nil
}

// snippet trims a response body for error messages
func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
