package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
)

// DefaultUserAgent identifies the watcher to remote servers.
const DefaultUserAgent = "biowatch/1.0 (+https://github.com/custodia-labs/biowatch)"

// DefaultMaxBodySize is the largest response body accepted.
const DefaultMaxBodySize = 10 << 20

var errBodyTooLarge = errors.New("response too large")

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves endpoints over HTTP with a per-request timeout and
// optional per-host rate limiting.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
	limiter   *HostLimiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the timeout for each request.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest body accepted. Longer responses fail.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// WithHostLimiter rate limits requests per host.
func WithHostLimiter(l *HostLimiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithHTTPClient supplies the client requests are sent with. The fetcher
// uses a copy carrying its own timeout, so c itself is not modified.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:   10 * time.Second,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	client := &http.Client{}
	if f.client != nil {
		c := *f.client
		client = &c
	}
	client.Timeout = f.timeout
	f.client = client

	return f
}

// Fetch retrieves the body of rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*driven.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.honourRetryAfter(u.Host, resp)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: %s body exceeds %d bytes", errBodyTooLarge, rawURL, f.maxBody)
	}

	return &driven.Response{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (f *Fetcher) honourRetryAfter(host string, resp *http.Response) {
	if f.limiter == nil {
		return
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		f.limiter.Backoff(host, time.Duration(secs)*time.Second)
	}
}
