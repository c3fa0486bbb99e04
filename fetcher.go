package tablesnap

import "context"

// Content is a fetched page body decoded to UTF-8.
type Content struct {
	// URL is the requested URL.
	URL string

	// Body is the response body as UTF-8 text.
	Body string

	// Charset is the declared or detected encoding of the original body.
	Charset string
}

// Fetcher retrieves raw page content from URLs.
type Fetcher interface {
	// Fetch performs a single bounded GET request.
	// Returns EINVALID for a malformed URL without issuing a request,
	// and ENETWORK for timeouts, DNS failures, connection errors and
	// non-2xx responses. The context controls cancellation.
	Fetch(ctx context.Context, url string) (*Content, error)
}
