// Package client implements the per-source collaborators that query
// external search engines and people-search sites for a phone number.
//
// Every client returns raw text blobs only; entity extraction and
// correlation happen elsewhere. Failures carry a FetchError whose kind
// tells the task runner whether a retry can help.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/telespotter/internal/model"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// Default fetch settings shared by all clients.
const (
	// defaultUserAgent mimics a common browser because several
	// people-search sites refuse obvious bot agents outright.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// defaultTimeout is the per-request timeout.
	defaultTimeout = 15 * time.Second

	// defaultMaxBodySize caps response bodies. Search result pages are
	// well under this; anything larger is not worth parsing.
	defaultMaxBodySize = 2 * 1024 * 1024

	// defaultRequestsPerSecond is the shared outbound request rate.
	defaultRequestsPerSecond = 1.0
)

// ErrUnsupportedSource is returned when no client exists for a source.
var ErrUnsupportedSource = errors.New("unsupported source")

// ErrorKind classifies a fetch failure for retry decisions.
type ErrorKind int

const (
	// KindNetwork is a connection-level failure or a 5xx response.
	KindNetwork ErrorKind = iota
	// KindTimeout is a request that ran out of time.
	KindTimeout
	// KindBlocked is a 403 or 429: the site refused us and retrying
	// immediately only makes it worse.
	KindBlocked
	// KindBadResponse is any other unusable response.
	KindBadResponse
)

// String returns the kind name for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindBlocked:
		return "blocked"
	case KindBadResponse:
		return "bad response"
	default:
		return "unknown"
	}
}

// FetchError is the failure type returned by every client.
type FetchError struct {
	// Source is the provider that failed.
	Source model.Source
	// Kind classifies the failure.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether a retry may succeed. Blocked and malformed
// responses won't improve on retry; network hiccups and timeouts might.
func (e *FetchError) Transient() bool {
	return e.Kind == KindNetwork || e.Kind == KindTimeout
}

// Transient reports whether err is a fetch failure worth retrying.
func Transient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient()
}

// Client queries one external source for a phone number and returns the
// raw text found.
type Client interface {
	// Source returns the provider this client queries.
	Source() model.Source

	// Fetch queries the source and returns raw text blobs. It honors
	// ctx for cancellation and deadline; failures are *FetchError
	// except plain context cancellation, which is passed through.
	Fetch(ctx context.Context, phone model.PhoneNumber) (*model.RawResult, error)
}

// Fetcher is the HTTP plumbing shared by all clients: one pooled
// http.Client, one outbound rate limit, one body-size cap.
//
// Design decision: clients share a Fetcher rather than each owning an
// http.Client because:
//  1. The outbound rate limit must cover all sources together
//  2. Proxy configuration should be set once, not per source
//  3. Connection pooling works better with a shared client
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	limiter     *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	rps         float64
	proxyAddr   string
	httpClient  *http.Client
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *fetcherOptions) {
		o.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *fetcherOptions) {
		o.timeout = timeout
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(o *fetcherOptions) {
		o.maxBodySize = size
	}
}

// WithRequestsPerSecond sets the shared outbound request rate.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *fetcherOptions) {
		o.rps = rps
	}
}

// WithSOCKS5Proxy routes all requests through a SOCKS5 proxy at addr
// ("host:port"). Useful when lookups must not come from the operator's
// own address.
func WithSOCKS5Proxy(addr string) Option {
	return func(o *fetcherOptions) {
		o.proxyAddr = addr
	}
}

// WithHTTPClient replaces the constructed http.Client entirely,
// bypassing proxy and timeout options. Intended for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *fetcherOptions) {
		o.httpClient = client
	}
}

// NewFetcher creates the shared HTTP plumbing for a set of clients.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := &fetcherOptions{
		userAgent:   defaultUserAgent,
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
		rps:         defaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	client := o.httpClient
	if client == nil {
		transport := &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		}
		if o.proxyAddr != "" {
			dialer, err := proxy.SOCKS5("tcp", o.proxyAddr, nil, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		client = &http.Client{
			Transport: transport,
			Timeout:   o.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	return &Fetcher{
		client:      client,
		userAgent:   o.userAgent,
		maxBodySize: o.maxBodySize,
		limiter:     rate.NewLimiter(rate.Limit(o.rps), 1),
	}, nil
}

// get performs one rate-limited GET against rawURL and returns the
// visible text blobs of the response page.
func (f *Fetcher) get(ctx context.Context, src model.Source, rawURL string) ([]string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, classify(src, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Source: src, Kind: KindBadResponse, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(src, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &FetchError{Source: src, Kind: KindBlocked, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 500:
		return nil, &FetchError{Source: src, Kind: KindNetwork, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return nil, &FetchError{Source: src, Kind: KindBadResponse, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	texts, err := visibleText(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{Source: src, Kind: KindBadResponse, Err: err}
	}
	return texts, nil
}

// classify wraps a transport-level error with its retry class. Plain
// context cancellation passes through so callers can tell a cancelled
// session from a failed fetch.
func classify(src model.Source, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &FetchError{Source: src, Kind: KindTimeout, Err: err}
	}
	return &FetchError{Source: src, Kind: KindNetwork, Err: err}
}

// New returns the client for one source, sharing the given Fetcher.
func New(src model.Source, f *Fetcher) (Client, error) {
	switch src.Kind() {
	case model.KindSearchEngine:
		return NewSearchEngineClient(src, f)
	case model.KindPeopleSearch:
		return NewPeopleSearchClient(src, f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}
}

// ForSources returns one client per source, all sharing the Fetcher.
func ForSources(sources []model.Source, f *Fetcher) ([]Client, error) {
	out := make([]Client, 0, len(sources))
	for _, src := range sources {
		c, err := New(src, f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
