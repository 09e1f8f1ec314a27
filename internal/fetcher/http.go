package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/resilience"
)

// userAgents is the fixed pool of client identities rotated across
// requests to reduce correlated blocking by catalog hosts.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// maxBodyBytes caps catalog responses; search pages past this size carry
// no additional products worth parsing.
const maxBodyBytes = 4 << 20

// HTTPFetcher implements Fetcher using net/http with retry, per-host rate
// limiting, and rotating identity headers.
type HTTPFetcher struct {
	client *http.Client
	cfg    config.FetchConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	uaIndex  int
}

// NewHTTP creates an HTTPFetcher from the fetch channel configuration.
func NewHTTP(cfg config.FetchConfig) *HTTPFetcher {
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 1.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
		MaxConnsPerHost:     8,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   cfg.FetchTimeout(),
			Transport: transport,
		},
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// nextUserAgent rotates through the identity pool.
func (f *HTTPFetcher) nextUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ua := userAgents[f.uaIndex%len(userAgents)]
	f.uaIndex++
	return ua
}

// limiterFor returns (creating if needed) the per-host limiter enforcing
// the minimum inter-request interval against one catalog host.
func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(f.cfg.RequestsPerSec), f.cfg.Burst)
		f.limiters[host] = lim
	}
	return lim
}

// Fetch performs one GET with retry. Non-2xx statuses and network errors
// come back as *resilience.FetchError; transient ones are retried with a
// growing delay that starts above the inter-request interval.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Payload, error) {
	lim := f.limiterFor(rawURL)

	base := f.cfg.MinInterval()
	if base <= 0 {
		base = time.Second
	}

	return resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts:    f.cfg.MaxRetries,
		InitialBackoff: 2 * base,
		MaxBackoff:     30 * time.Second,
		OnRetry:        resilience.RetryLogger(rawURL, "fetch"),
	}, func(ctx context.Context) (*Payload, error) {
		return f.fetchOnce(ctx, lim, rawURL)
	})
}

// fetchOnce executes a single rate-limited GET attempt.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, lim *rate.Limiter, rawURL string) (*Payload, error) {
	if err := lim.Wait(ctx); err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &resilience.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}

	return &Payload{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
