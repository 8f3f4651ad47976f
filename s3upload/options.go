package s3upload

import "net/http"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRequestEditor registers a hook run on requests to the API server, for
// example to attach credentials. Presigned storage URLs never see it.
func WithRequestEditor(fn func(*http.Request)) Option {
	return func(c *Client) {
		c.editor = fn
	}
}

// WithConcurrency sets how many parts are uploaded at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithPartRetries sets how often a failed part PUT is retried.
func WithPartRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.partRetries = n
		}
	}
}
