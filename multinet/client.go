package multinet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"github.com/multinet-app/multinet-go/s3upload"
)

// Client represents a Multinet API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	userAgent   string
	uploader    Uploader
	concurrency int
	logger      zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a new Multinet client for the API rooted at baseURL
// (for example "https://multinet.example.org/api").
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: multinet URL is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Ensure baseURL doesn't have trailing slash
	baseURL = strings.TrimRight(baseURL, "/")

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	client := &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		userAgent:   options.userAgent,
		uploader:    options.uploader,
		concurrency: options.concurrency,
		logger:      logger,
		token:       options.token,
	}

	if client.uploader == nil {
		// Part uploads keep their own timeout unless the caller chose a client
		uploadOpts := []s3upload.Option{s3upload.WithRequestEditor(client.authorize)}
		if options.httpClient != nil {
			uploadOpts = append(uploadOpts, s3upload.WithHTTPClient(options.httpClient))
		}
		uploader, err := s3upload.New(baseURL, logger, append(uploadOpts, options.uploadOpts...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create uploader: %w", err)
		}
		client.uploader = uploader
	}

	return client, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken attaches a bearer token to every subsequent request
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearAuthToken stops sending a bearer token
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

// HasAuthToken reports whether a bearer token is currently set
func (c *Client) HasAuthToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// authorize adds the credential header, if any, to an API-bound request
func (c *Client) authorize(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// TestConnection tests the connection to Multinet
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Workspaces(ctx)
	return err
}

// endpoint builds a resource path from escaped segments, with the trailing
// slash the API expects.
func endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/") + "/"
}

// encodeQuery turns a tagged options struct into query parameters
func encodeQuery(opts any) (url.Values, error) {
	params, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query parameters: %w", err)
	}
	return params, nil
}

// doRequest performs an HTTP request with authentication and returns the raw
// response body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	requestURL := c.baseURL + "/" + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Multinet API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(method, path, resp.StatusCode, data)
	}

	return data, nil
}

// doJSON performs a request and decodes a JSON response into out, if given
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, body, out any) error {
	data, err := c.doRequest(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// get issues a GET and decodes the result into a fresh T
func get[T any](ctx context.Context, c *Client, path string, params url.Values) (*T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// send issues a request with a JSON body and decodes the result into a fresh T
func send[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.doJSON(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
