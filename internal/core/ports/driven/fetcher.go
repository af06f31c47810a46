package driven

import "context"

// Response is the body of a fetched endpoint.
type Response struct {
	// URL is the endpoint that was fetched.
	URL string

	// ContentType is the response media type.
	ContentType string

	// Body is the raw response body.
	Body []byte
}

// Fetcher retrieves remote endpoints for the remote poller.
type Fetcher interface {
	// Fetch retrieves one URL. Implementations must honour ctx and bound
	// the call with their own timeout.
	Fetch(ctx context.Context, url string) (*Response, error)
}
