package multinet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multinet-app/multinet-go/s3upload"
)

// fakeUploader hands out a fixed field value and records what it was given
type fakeUploader struct {
	mu         sync.Mutex
	fieldValue string
	err        error
	fieldIDs   []string
	files      []*s3upload.File
}

func (u *fakeUploader) Upload(ctx context.Context, fieldID string, file *s3upload.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fieldIDs = append(u.fieldIDs, fieldID)
	u.files = append(u.files, file)
	if u.err != nil {
		return "", u.err
	}
	return u.fieldValue, nil
}

func uploadResponse() map[string]any {
	return map[string]any{
		"id":        21,
		"blob":      "uploads/airports.csv",
		"data_type": "CSV",
		"status":    "PENDING",
	}
}

func TestUploadTableCSV(t *testing.T) {
	rec := &recorder{response: uploadResponse()}
	uploader := &fakeUploader{fieldValue: "signed-field-value"}
	client := newTestClient(t, rec, WithUploader(uploader))

	data := s3upload.NewBytesFile("airports.csv", []byte("code,city\nBOS,Boston\n"))
	upload, err := client.UploadTable(context.Background(), "ws", "airports", UploadTableOptions{
		Data:        data,
		ColumnTypes: ColumnTypes{"code": ColumnPrimaryKey, "city": ColumnLabel},
		Delimiter:   ",",
	})
	require.NoError(t, err)
	assert.Equal(t, 21, upload.ID)
	assert.Equal(t, UploadPending, upload.Status)

	require.Len(t, uploader.files, 1)
	assert.Same(t, data, uploader.files[0])
	assert.Equal(t, []string{UploadFieldID}, uploader.fieldIDs)

	got := rec.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/workspaces/ws/uploads/csv/", got.Path)
	assert.JSONEq(t, `{
		"field_value": "signed-field-value",
		"edge": false,
		"table_name": "airports",
		"columns": {"code": "primary key", "city": "label"},
		"delimiter": ","
	}`, string(got.Body))
}

func TestUploadTableJSONEdge(t *testing.T) {
	rec := &recorder{response: uploadResponse()}
	client := newTestClient(t, rec, WithUploader(&fakeUploader{fieldValue: "ref"}))

	_, err := client.UploadTable(context.Background(), "ws", "flights", UploadTableOptions{
		Data:      s3upload.NewBytesFile("flights.json", []byte(`[]`)),
		EdgeTable: true,
		FileType:  FileTypeJSON,
		Delimiter: ";",
	})
	require.NoError(t, err)

	got := rec.last(t)
	assert.Equal(t, "/api/workspaces/ws/uploads/json_table/", got.Path)
	assert.JSONEq(t, `{
		"field_value": "ref",
		"edge": true,
		"table_name": "flights",
		"columns": {}
	}`, string(got.Body))
}

func TestUploadColumnsAreExactlyThoseGiven(t *testing.T) {
	rec := &recorder{response: uploadResponse()}
	client := newTestClient(t, rec, WithUploader(&fakeUploader{fieldValue: "ref"}))

	columns := ColumnTypes{"when": ColumnDate, "weight": ColumnNumber}
	_, err := client.UploadTable(context.Background(), "ws", "t", UploadTableOptions{
		Data:        s3upload.NewBytesFile("t.csv", []byte("a\n")),
		ColumnTypes: columns,
	})
	require.NoError(t, err)

	var body struct {
		FieldValue string      `json:"field_value"`
		Columns    ColumnTypes `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.last(t).Body, &body))
	assert.Equal(t, "ref", body.FieldValue)
	assert.Equal(t, columns, body.Columns)
}

func TestUploadNetwork(t *testing.T) {
	rec := &recorder{response: uploadResponse()}
	uploader := &fakeUploader{fieldValue: "net-ref"}
	client := newTestClient(t, rec, WithUploader(uploader))

	_, err := client.UploadNetwork(context.Background(), "ws", "roads",
		s3upload.NewBytesFile("roads.json", []byte(`{"nodes":[],"links":[]}`)),
		ColumnTypes{"population": ColumnNumber},
		nil,
	)
	require.NoError(t, err)

	got := rec.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/workspaces/ws/uploads/json_network/", got.Path)
	assert.JSONEq(t, `{
		"field_value": "net-ref",
		"network_name": "roads",
		"node_columns": {"population": "number"},
		"edge_columns": {}
	}`, string(got.Body))
}

func TestUploaderFailurePropagates(t *testing.T) {
	uploadErr := &s3upload.Error{Stage: s3upload.StagePart, StatusCode: http.StatusForbidden}
	rec := &recorder{}
	client := newTestClient(t, rec, WithUploader(&fakeUploader{err: uploadErr}))
	ctx := context.Background()

	_, err := client.UploadTable(ctx, "ws", "t", UploadTableOptions{Data: s3upload.NewBytesFile("t.csv", []byte("a\n"))})
	require.Error(t, err)
	assert.ErrorIs(t, err, uploadErr)

	var stageErr *s3upload.Error
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, s3upload.StagePart, stageErr.Stage)

	_, err = client.UploadNetwork(ctx, "ws", "n", s3upload.NewBytesFile("n.json", []byte("{}")), nil, nil)
	assert.ErrorIs(t, err, uploadErr)

	assert.Zero(t, rec.count(), "no ingestion request after a failed upload")
}

func TestUploadInvalidArguments(t *testing.T) {
	file := s3upload.NewBytesFile("t.csv", []byte("a\n"))

	runInvalidArgCases(t, map[string]func(ctx context.Context, c *Client) error{
		"table without workspace": func(ctx context.Context, c *Client) error {
			_, err := c.UploadTable(ctx, "", "t", UploadTableOptions{Data: file})
			return err
		},
		"table without name": func(ctx context.Context, c *Client) error {
			_, err := c.UploadTable(ctx, "ws", "", UploadTableOptions{Data: file})
			return err
		},
		"table without data": func(ctx context.Context, c *Client) error {
			_, err := c.UploadTable(ctx, "ws", "t", UploadTableOptions{})
			return err
		},
		"table with unknown file type": func(ctx context.Context, c *Client) error {
			_, err := c.UploadTable(ctx, "ws", "t", UploadTableOptions{Data: file, FileType: "xlsx"})
			return err
		},
		"network without name": func(ctx context.Context, c *Client) error {
			_, err := c.UploadNetwork(ctx, "ws", "", file, nil, nil)
			return err
		},
		"network without data": func(ctx context.Context, c *Client) error {
			_, err := c.UploadNetwork(ctx, "ws", "n", nil, nil, nil)
			return err
		},
	})
}

func TestUnknownFileTypeSkipsUpload(t *testing.T) {
	uploader := &fakeUploader{fieldValue: "ref"}
	client := newTestClient(t, &recorder{}, WithUploader(uploader))

	_, err := client.UploadTable(context.Background(), "ws", "t", UploadTableOptions{
		Data:     s3upload.NewBytesFile("t.xlsx", []byte("x")),
		FileType: "xlsx",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, uploader.files)
}

// newUploadServer serves the s3-upload endpoints, one presigned part, the
// storage completion URL and CSV ingestion from a single server. It records
// the Authorization header seen on every path.
func newUploadServer(t *testing.T, partDelay time.Duration) (*httptest.Server, func() map[string]string) {
	var (
		mu     sync.Mutex
		auth   = make(map[string]string)
		server *httptest.Server
	)
	record := func(r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth[r.URL.Path] = r.Header.Get("Authorization")
	}
	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/s3-upload/upload-initialize/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, map[string]any{
			"object_key":       "uploads/t.csv",
			"upload_id":        "upload-1",
			"upload_signature": "sig",
			"parts": []map[string]any{
				{"part_number": 1, "size": 2, "upload_url": server.URL + "/storage/part/1"},
			},
		})
	})
	mux.HandleFunc("PUT /storage/part/1", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		time.Sleep(partDelay)
		w.Header().Set("ETag", `"etag-1"`)
	})
	mux.HandleFunc("POST /api/s3-upload/upload-complete/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, map[string]any{"complete_url": server.URL + "/storage/complete", "body": "<CompleteMultipartUpload/>"})
	})
	mux.HandleFunc("POST /storage/complete", func(w http.ResponseWriter, r *http.Request) {
		record(r)
	})
	mux.HandleFunc("POST /api/s3-upload/finalize/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, map[string]any{"field_value": "signed-field-value"})
	})
	mux.HandleFunc("POST /api/workspaces/ws/uploads/csv/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, uploadResponse())
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, func() map[string]string {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[string]string, len(auth))
		for k, v := range auth {
			out[k] = v
		}
		return out
	}
}

func TestDefaultUploaderFollowsAuthToken(t *testing.T) {
	server, seen := newUploadServer(t, 0)

	client, err := NewClient(server.URL+"/api", zerolog.Nop(), WithAuthToken("first"))
	require.NoError(t, err)
	client.SetAuthToken("second")

	_, err = client.UploadTable(context.Background(), "ws", "t", UploadTableOptions{
		Data: s3upload.NewBytesFile("t.csv", []byte("a\n")),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"/api/s3-upload/upload-initialize/": "Bearer second",
		"/storage/part/1":                   "",
		"/api/s3-upload/upload-complete/":   "Bearer second",
		"/storage/complete":                 "",
		"/api/s3-upload/finalize/":          "Bearer second",
		"/api/workspaces/ws/uploads/csv/":   "Bearer second",
	}, seen())
}

func TestDefaultUploaderKeepsItsOwnTimeout(t *testing.T) {
	server, _ := newUploadServer(t, 300*time.Millisecond)

	client, err := NewClient(server.URL+"/api", zerolog.Nop(),
		WithTimeout(100*time.Millisecond),
		WithUploadOptions(s3upload.WithPartRetries(0)),
	)
	require.NoError(t, err)

	upload, err := client.UploadTable(context.Background(), "ws", "t", UploadTableOptions{
		Data: s3upload.NewBytesFile("t.csv", []byte("a\n")),
	})
	require.NoError(t, err)
	assert.Equal(t, 21, upload.ID)
}
