package source

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/metrics"
)

// FetcherInterface downloads one remote snapshot.
type FetcherInterface interface {
	Fetch(ctx context.Context, name, url string) ([]byte, error)
}

// Fetcher downloads CSV snapshots over HTTP.
// It implements the FetcherInterface.
type Fetcher struct {
	client      *resty.Client
	logger      *zap.Logger
	limiter     *rate.Limiter
	metrics     *metrics.Manager
	maxRetries  int
	baseBackoff time.Duration
}

// ensure Fetcher implements the interface
var _ FetcherInterface = (*Fetcher)(nil)

// NewFetcher creates a new snapshot fetcher. m may be nil.
func NewFetcher(cfg *config.Fetch, logger *zap.Logger, m *metrics.Manager) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "text/csv, text/plain, */*")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Fetcher{
		client:      client,
		logger:      logger.Named("fetcher"),
		limiter:     rate.NewLimiter(limit, burst),
		metrics:     m,
		maxRetries:  maxRetries,
		baseBackoff: time.Second,
	}
}

// Fetch downloads url and returns the response body. name labels logs and metrics.
func (f *Fetcher) Fetch(ctx context.Context, name, url string) ([]byte, error) {
	start := time.Now()
	defer func() { f.metrics.ObserveFetchDuration(name, time.Since(start)) }()

	resp, err := f.doRequest(ctx, name, url)
	if err != nil {
		f.metrics.RecordFetch(name, metrics.OutcomeFailure)
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	f.metrics.RecordFetch(name, metrics.OutcomeSuccess)

	body := resp.Body()
	f.logger.Info("Fetched source",
		zap.String("source", name),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)
	return body, nil
}

// doRequest handles the request execution with rate limiting and retry logic.
func (f *Fetcher) doRequest(ctx context.Context, name, url string) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	for i := 0; i < f.maxRetries; i++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		f.logger.Debug("Executing request", zap.String("source", name), zap.String("url", url))
		resp, err = f.client.R().SetContext(ctx).Get(url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			err = fmt.Errorf("unexpected status %s", resp.Status())
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		if i == f.maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			// Exponential backoff: base, 2*base, 4*base, ...
			retryAfter = time.Duration(math.Pow(2, float64(i))) * f.baseBackoff
		}

		f.metrics.RecordFetch(name, metrics.OutcomeRetry)
		f.logger.Warn("Request failed, retrying...",
			zap.String("source", name),
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", f.maxRetries, err)
}
