// Package http provides an HTTP-based implementation of tablesnap.Fetcher.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/tablesnap"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// MaxBodySize caps the number of bytes read from a response body.
const MaxBodySize = 32 << 20

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "tablesnap/1.0"

// Ensure Fetcher implements tablesnap.Fetcher at compile time.
var _ tablesnap.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content using a single HTTP GET per call.
// It never retries; failures are reported to the caller as ENETWORK.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *DomainLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit limits requests to rps per host.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = NewDomainLimiter(rps)
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{Timeout: f.timeout}

	return f
}

// Fetch retrieves the content at rawURL and decodes it to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*tablesnap.Content, error) {
	u, err := tablesnap.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	// One deadline covers the rate limit wait and the request.
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, &tablesnap.Error{
				Code:    tablesnap.ENETWORK,
				Message: fmt.Sprintf("rate limit wait for %s: %v", u.Hostname(), err),
				Err:     err,
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, tablesnap.Errorf(tablesnap.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, networkError(u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &tablesnap.Error{
			Code:    tablesnap.ENETWORK,
			Message: fmt.Sprintf("HTTP %d for %s", resp.StatusCode, u),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, networkError(u.String(), err)
	}
	if len(body) > MaxBodySize {
		return nil, tablesnap.Errorf(tablesnap.ENETWORK, "response body for %s exceeds %d bytes", u, MaxBodySize)
	}

	text, name, err := decode(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, tablesnap.Errorf(tablesnap.ENETWORK, "decode %s body from %s: %v", name, u, err)
	}

	return &tablesnap.Content{
		URL:     rawURL,
		Body:    text,
		Charset: name,
	}, nil
}

// decode converts body to UTF-8 using the Content-Type header, a BOM or a
// <meta charset> declaration, falling back to content sniffing.
func decode(body []byte, contentType string) (string, string, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", name, err
	}
	return string(bytes.TrimPrefix(out, []byte("\uFEFF"))), name, nil
}

// networkError classifies transport failures as ENETWORK.
func networkError(url string, err error) error {
	var dnsErr *net.DNSError
	var netErr net.Error
	kind := "request failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = "timeout"
	case errors.As(err, &dnsErr):
		kind = "DNS lookup failed"
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = "timeout"
	case errors.Is(err, context.Canceled):
		kind = "canceled"
	}
	return &tablesnap.Error{
		Code:    tablesnap.ENETWORK,
		Message: fmt.Sprintf("%s for %s: %v", kind, url, err),
		Err:     err,
	}
}
