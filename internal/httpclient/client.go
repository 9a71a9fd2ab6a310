// Package httpclient wraps outbound calls to external pricing services
// with a per-request timeout and bounded exponential-backoff retries.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/metrics"
)

type Config struct {
	Timeout     time.Duration // per-request timeout, headers included
	Retries     uint          // retries after the first attempt
	BackoffBase time.Duration // first retry delay, doubled per attempt
}

type Client struct {
	http        *http.Client
	attempts    uint
	backoffBase time.Duration
	logger      zerolog.Logger
}

func New(logger zerolog.Logger, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2 * time.Second
	}
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
			Timeout: cfg.Timeout,
		},
		attempts:    cfg.Retries + 1,
		backoffBase: cfg.BackoffBase,
		logger:      logger.With().Str("module", "httpclient").Logger(),
	}
}

// Backoff returns the delay before retry n (0-based): base << n, so a 2s
// base yields 2s, 4s, 8s.
func (c *Client) Backoff(n uint) time.Duration {
	return c.backoffBase << n
}

// Get issues a GET request and returns the response body. Transport
// errors and non-2xx statuses are retried with exponential backoff;
// once the retry budget is exhausted a *common.NetworkError is returned.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	reqURL := u.String()

	var body []byte
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		body = b
		return nil
	}

	err = retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return c.Backoff(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			metrics.OutboundRetries.Inc()
			c.logger.Warn().Err(err).Uint("retry", n+1).Str("url", u.Host+u.Path).Msg("outbound request failed; retrying")
		}),
	)
	if err != nil {
		return nil, &common.NetworkError{Target: reqURL, Attempts: c.attempts, Err: err}
	}
	return body, nil
}

// GetJSON issues a GET request and decodes the JSON body into out. A
// decode failure is not a NetworkError: the response arrived, it just
// wasn't usable, and the caller decides what that means for its strategy.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out interface{}) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", rawURL, err)
	}
	return nil
}
