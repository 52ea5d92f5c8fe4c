// Package nflverse downloads and decodes the published nflverse data
// releases: weekly player stats, weekly rosters, snap counts, team defense
// stats, and game schedules. Assets are CSV, usually gzip-compressed, and
// published per season.
package nflverse

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNotAvailable reports that an asset has not been published for the
// requested season (or week). Callers treat it as "pending", not failure.
type ErrNotAvailable struct {
	Asset  string
	Season int
	Week   int
}

func (e *ErrNotAvailable) Error() string {
	if e.Week > 0 {
		return fmt.Sprintf("nflverse asset %s not available for season %d week %d", e.Asset, e.Season, e.Week)
	}
	return fmt.Sprintf("nflverse asset %s not available for season %d", e.Asset, e.Season)
}

// IsNotAvailable reports whether err wraps an ErrNotAvailable.
func IsNotAvailable(err error) bool {
	var na *ErrNotAvailable
	return errors.As(err, &na)
}

// Client fetches nflverse release assets over HTTP with rate limiting and
// circuit breaker protection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewClient creates an asset client. requestsPerSecond bounds the request
// rate against the release host; the circuit breaker opens after repeated
// failures so a broken release mirror does not stall every refresh.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, logger *logrus.Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "nflverse",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// A 404 means the release has not been published yet, not that the
		// mirror is unhealthy. Pending assets must not open the breaker.
		IsSuccessful: func(err error) bool {
			var na *ErrNotAvailable
			return err == nil || errors.As(err, &na)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "nflverse_client",
				"breaker":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// fetchAsset downloads one asset path relative to the base URL and returns
// its decompressed bytes. A 404 means the release does not carry the asset
// for that season.
func (c *Client) fetchAsset(ctx context.Context, path string, asset string, season int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	url := c.baseURL + "/" + path
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", asset, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, &ErrNotAvailable{Asset: asset, Season: season}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: unexpected status %d", asset, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading %s body: %w", asset, err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	body := result.([]byte)
	c.logger.WithFields(logrus.Fields{
		"component": "nflverse_client",
		"asset":     asset,
		"season":    season,
		"bytes":     len(body),
	}).Debug("Fetched asset")

	return decompress(body)
}

// decompress unwraps a gzip payload, passing plain payloads through. Release
// assets are served pre-compressed; a proxy may have already unwrapped them.
func decompress(body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opening gzip reader: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing asset: %w", err)
	}
	return out, nil
}
