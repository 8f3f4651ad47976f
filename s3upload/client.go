package s3upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	defaultPartRetries = 3
)

// Client uploads files through the presigned multipart protocol exposed by
// the API under s3-upload/.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	parts       *retryablehttp.Client
	editor      func(*http.Request)
	concurrency int
	partRetries int
	logger      zerolog.Logger
}

// New creates an upload client for the API rooted at baseURL
func New(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("s3upload: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("s3upload: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		concurrency: defaultConcurrency,
		partRetries: defaultPartRetries,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.parts = retryablehttp.NewClient()
	c.parts.HTTPClient = c.httpClient
	c.parts.RetryMax = c.partRetries
	c.parts.RetryWaitMin = 200 * time.Millisecond
	c.parts.RetryWaitMax = 5 * time.Second
	c.parts.Logger = leveledLogger{logger: logger}
	// Keep the last storage response once retries run out
	c.parts.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return c, nil
}

type initializeRequest struct {
	FieldID     string `json:"field_id"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

type presignedPart struct {
	PartNumber int    `json:"part_number"`
	Size       int64  `json:"size"`
	UploadURL  string `json:"upload_url"`
}

type initializeResponse struct {
	ObjectKey       string          `json:"object_key"`
	UploadID        string          `json:"upload_id"`
	Parts           []presignedPart `json:"parts"`
	UploadSignature string          `json:"upload_signature"`
}

type completedPart struct {
	PartNumber int    `json:"part_number"`
	Size       int64  `json:"size"`
	ETag       string `json:"etag"`
}

type completeRequest struct {
	UploadSignature string          `json:"upload_signature"`
	UploadID        string          `json:"upload_id"`
	Parts           []completedPart `json:"parts"`
}

type completeResponse struct {
	CompleteURL string `json:"complete_url"`
	Body        string `json:"body"`
}

type finalizeRequest struct {
	UploadSignature string `json:"upload_signature"`
}

type finalizeResponse struct {
	FieldValue string `json:"field_value"`
}

// Upload sends file to object storage and returns the signed field value
// the API accepts as a reference to it.
func (c *Client) Upload(ctx context.Context, fieldID string, file *File) (string, error) {
	if file == nil {
		return "", errors.New("s3upload: file is required")
	}

	var init initializeResponse
	err := c.postJSON(ctx, StageInitialize, "s3-upload/upload-initialize/", initializeRequest{
		FieldID:     fieldID,
		FileName:    file.Name,
		FileSize:    file.Size,
		ContentType: file.ContentType,
	}, &init)
	if err != nil {
		return "", err
	}
	if init.UploadSignature == "" {
		return "", &Error{Stage: StageInitialize, Err: fmt.Errorf("%w: missing upload signature", ErrInvalidResponse)}
	}

	c.logger.Debug().
		Str("file", file.Name).
		Int64("size", file.Size).
		Int("parts", len(init.Parts)).
		Msg("Initialized upload")

	parts, err := c.uploadParts(ctx, file, init.Parts)
	if err != nil {
		return "", err
	}

	var complete completeResponse
	err = c.postJSON(ctx, StageComplete, "s3-upload/upload-complete/", completeRequest{
		UploadSignature: init.UploadSignature,
		UploadID:        init.UploadID,
		Parts:           parts,
	}, &complete)
	if err != nil {
		return "", err
	}
	if err := c.completeMultipart(ctx, complete); err != nil {
		return "", err
	}

	var final finalizeResponse
	err = c.postJSON(ctx, StageFinalize, "s3-upload/finalize/", finalizeRequest{
		UploadSignature: init.UploadSignature,
	}, &final)
	if err != nil {
		return "", err
	}
	if final.FieldValue == "" {
		return "", &Error{Stage: StageFinalize, Err: fmt.Errorf("%w: missing field value", ErrInvalidResponse)}
	}

	c.logger.Info().Str("file", file.Name).Str("object_key", init.ObjectKey).Msg("Upload finished")
	return final.FieldValue, nil
}

// uploadParts PUTs every part concurrently and returns them in part order
// with their ETags.
func (c *Client) uploadParts(ctx context.Context, file *File, parts []presignedPart) ([]completedPart, error) {
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	var total int64
	offsets := make([]int64, len(parts))
	for i, p := range parts {
		offsets[i] = total
		total += p.Size
	}
	if total != file.Size {
		return nil, &Error{Stage: StageInitialize, Err: fmt.Errorf("%w: parts cover %d of %d bytes", ErrInvalidResponse, total, file.Size)}
	}

	completed := make([]completedPart, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, part := range parts {
		g.Go(func() error {
			data, err := file.readPart(offsets[i], part.Size)
			if err != nil {
				return &Error{Stage: StagePart, Err: err}
			}

			etag, err := c.putPart(ctx, part.UploadURL, data)
			if err != nil {
				return err
			}

			completed[i] = completedPart{
				PartNumber: part.PartNumber,
				Size:       part.Size,
				ETag:       etag,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return completed, nil
}

func (c *Client) putPart(ctx context.Context, uploadURL string, data []byte) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, uploadURL, data)
	if err != nil {
		return "", &Error{Stage: StagePart, Err: err}
	}

	resp, err := c.parts.Do(req)
	if resp == nil {
		return "", &Error{Stage: StagePart, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", &Error{Stage: StagePart, StatusCode: resp.StatusCode, Body: body, Err: err}
	}
	if err != nil {
		return "", &Error{Stage: StagePart, Err: err}
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return "", &Error{Stage: StagePart, Err: fmt.Errorf("%w: missing ETag", ErrInvalidResponse)}
	}
	return etag, nil
}

// completeMultipart posts the storage-specific completion document
func (c *Client) completeMultipart(ctx context.Context, complete completeResponse) error {
	if complete.CompleteURL == "" {
		return &Error{Stage: StageComplete, Err: fmt.Errorf("%w: missing complete URL", ErrInvalidResponse)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, complete.CompleteURL, strings.NewReader(complete.Body))
	if err != nil {
		return &Error{Stage: StageComplete, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Stage: StageComplete, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &Error{Stage: StageComplete, StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}

// postJSON posts a JSON body to an API endpoint and decodes the response
func (c *Client) postJSON(ctx context.Context, stage Stage, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &Error{Stage: stage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Stage: stage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.editor != nil {
		c.editor(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Stage: stage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Stage: stage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Stage: stage, StatusCode: resp.StatusCode, Body: body}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Stage: stage, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	return nil
}
