package multinet

import (
	"net/http"
	"time"

	"github.com/multinet-app/multinet-go/s3upload"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout     time.Duration
	httpClient  *http.Client
	userAgent   string
	token       string
	uploader    Uploader
	uploadOpts  []s3upload.Option
	concurrency int
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:     30 * time.Second,
		userAgent:   "multinet-go",
		concurrency: DefaultBatchSize,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. The timeout option is
// ignored when this is set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithAuthToken sets the initial bearer token.
func WithAuthToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}

// WithUploader replaces the presigned upload helper used by UploadTable and
// UploadNetwork.
func WithUploader(uploader Uploader) Option {
	return func(o *clientOptions) {
		o.uploader = uploader
	}
}

// WithUploadOptions tunes the default presigned uploader. It has no effect
// together with WithUploader.
func WithUploadOptions(opts ...s3upload.Option) Option {
	return func(o *clientOptions) {
		o.uploadOpts = append(o.uploadOpts, opts...)
	}
}

// WithBatchConcurrency limits how many requests batch helpers run at once.
func WithBatchConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
