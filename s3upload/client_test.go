package s3upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageServer fakes both the API's s3-upload endpoints and the object
// store behind the presigned URLs.
type storageServer struct {
	t      *testing.T
	server *httptest.Server

	partSizes  []int64
	partStatus int

	mu            sync.Mutex
	initialize    initializeRequest
	complete      completeRequest
	parts         map[int][]byte
	partAuth      []string
	apiAuth       []string
	completeAuth  string
	completeBody  string
	finalizeCalls int
}

func newStorageServer(t *testing.T, partSizes ...int64) *storageServer {
	s := &storageServer{
		t:          t,
		partSizes:  partSizes,
		partStatus: http.StatusOK,
		parts:      make(map[int][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/s3-upload/upload-initialize/", s.handleInitialize)
	mux.HandleFunc("PUT /storage/part/{n}", s.handlePart)
	mux.HandleFunc("POST /api/s3-upload/upload-complete/", s.handleComplete)
	mux.HandleFunc("POST /storage/complete", s.handleMultipartComplete)
	mux.HandleFunc("POST /api/s3-upload/finalize/", s.handleFinalize)

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *storageServer) handleInitialize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiAuth = append(s.apiAuth, r.Header.Get("Authorization"))
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&s.initialize))

	// Parts are returned in reverse to check that the client orders them
	parts := make([]presignedPart, 0, len(s.partSizes))
	for i := len(s.partSizes) - 1; i >= 0; i-- {
		n := i + 1
		parts = append(parts, presignedPart{
			PartNumber: n,
			Size:       s.partSizes[i],
			UploadURL:  fmt.Sprintf("%s/storage/part/%d", s.server.URL, n),
		})
	}

	json.NewEncoder(w).Encode(initializeResponse{
		ObjectKey:       "uploads/" + s.initialize.FileName,
		UploadID:        "upload-1",
		Parts:           parts,
		UploadSignature: "sig",
	})
}

func (s *storageServer) handlePart(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	require.NoError(s.t, err)
	body, err := io.ReadAll(r.Body)
	require.NoError(s.t, err)

	s.mu.Lock()
	s.partAuth = append(s.partAuth, r.Header.Get("Authorization"))
	status := s.partStatus
	if status == http.StatusOK {
		s.parts[n] = body
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		w.Write([]byte("<Error>AccessDenied</Error>"))
		return
	}
	w.Header().Set("ETag", fmt.Sprintf(`"etag-%d"`, n))
}

func (s *storageServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiAuth = append(s.apiAuth, r.Header.Get("Authorization"))
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&s.complete))

	json.NewEncoder(w).Encode(completeResponse{
		CompleteURL: s.server.URL + "/storage/complete",
		Body:        "<CompleteMultipartUpload/>",
	})
}

func (s *storageServer) handleMultipartComplete(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeAuth = r.Header.Get("Authorization")
	s.completeBody = string(body)
}

func (s *storageServer) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiAuth = append(s.apiAuth, r.Header.Get("Authorization"))
	s.finalizeCalls++

	var req finalizeRequest
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(s.t, "sig", req.UploadSignature)

	json.NewEncoder(w).Encode(finalizeResponse{FieldValue: "signed-field-value"})
}

func bearer(token string) Option {
	return WithRequestEditor(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
}

func TestUpload(t *testing.T) {
	s := newStorageServer(t, 5, 5, 2)
	client, err := New(s.server.URL+"/api", zerolog.Nop(), bearer("tok"), WithConcurrency(2))
	require.NoError(t, err)

	file := NewBytesFile("airports.csv", []byte("hello world!"))
	fieldValue, err := client.Upload(context.Background(), "api.Upload.blob", file)
	require.NoError(t, err)
	assert.Equal(t, "signed-field-value", fieldValue)

	s.mu.Lock()
	defer s.mu.Unlock()

	assert.Equal(t, initializeRequest{
		FieldID:     "api.Upload.blob",
		FileName:    "airports.csv",
		FileSize:    12,
		ContentType: file.ContentType,
	}, s.initialize)

	assert.Equal(t, "hello", string(s.parts[1]))
	assert.Equal(t, " worl", string(s.parts[2]))
	assert.Equal(t, "d!", string(s.parts[3]))

	assert.Equal(t, "sig", s.complete.UploadSignature)
	assert.Equal(t, "upload-1", s.complete.UploadID)
	assert.Equal(t, []completedPart{
		{PartNumber: 1, Size: 5, ETag: `"etag-1"`},
		{PartNumber: 2, Size: 5, ETag: `"etag-2"`},
		{PartNumber: 3, Size: 2, ETag: `"etag-3"`},
	}, s.complete.Parts)

	assert.Equal(t, "<CompleteMultipartUpload/>", s.completeBody)
	assert.Equal(t, 1, s.finalizeCalls)
}

func TestUploadSendsCredentialsOnlyToAPI(t *testing.T) {
	s := newStorageServer(t, 4)
	client, err := New(s.server.URL+"/api", zerolog.Nop(), bearer("secret"))
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", NewBytesFile("data.json", []byte("{}\n\n")))
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()

	assert.Equal(t, []string{"Bearer secret", "Bearer secret", "Bearer secret"}, s.apiAuth)
	assert.Equal(t, []string{""}, s.partAuth)
	assert.Empty(t, s.completeAuth)
}

func TestUploadPartFailure(t *testing.T) {
	s := newStorageServer(t, 3)
	s.partStatus = http.StatusForbidden
	client, err := New(s.server.URL+"/api", zerolog.Nop(), WithPartRetries(0))
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", NewBytesFile("a.csv", []byte("a,b")))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, StagePart, uploadErr.Stage)
	assert.Equal(t, http.StatusForbidden, uploadErr.StatusCode)
	assert.Contains(t, string(uploadErr.Body), "AccessDenied")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Zero(t, s.finalizeCalls)
}

func TestUploadPartRetriesExhausted(t *testing.T) {
	s := newStorageServer(t, 3)
	s.partStatus = http.StatusServiceUnavailable
	client, err := New(s.server.URL+"/api", zerolog.Nop(), WithPartRetries(1))
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", NewBytesFile("a.csv", []byte("a,b")))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, StagePart, uploadErr.Stage)
	assert.Equal(t, http.StatusServiceUnavailable, uploadErr.StatusCode)
	assert.Contains(t, string(uploadErr.Body), "AccessDenied")
	assert.Contains(t, uploadErr.Error(), "status 503")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.partAuth, 2, "one attempt plus one retry")
	assert.Zero(t, s.finalizeCalls)
}

func TestUploadPartSizeMismatch(t *testing.T) {
	s := newStorageServer(t, 2, 2)
	client, err := New(s.server.URL+"/api", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", NewBytesFile("a.csv", []byte("abc")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestUploadInitializeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", NewBytesFile("a.csv", []byte("a")))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, StageInitialize, uploadErr.Stage)
	assert.Equal(t, http.StatusUnauthorized, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Error(), "initialize failed with status 401")
}

func TestUploadNilFile(t *testing.T) {
	client, err := New("http://localhost:8000/api", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "field", nil)
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New("", zerolog.Nop())
	require.Error(t, err)

	custom := &http.Client{}
	client, err := New("http://localhost:8000/api/", zerolog.Nop(),
		WithHTTPClient(custom),
		WithConcurrency(8),
		WithPartRetries(1),
		WithConcurrency(0),
		WithPartRetries(-1),
	)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", client.baseURL)
	assert.Same(t, custom, client.httpClient)
	assert.Same(t, custom, client.parts.HTTPClient)
	assert.Equal(t, 8, client.concurrency)
	assert.Equal(t, 1, client.parts.RetryMax)
}

func TestFile(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		f := NewBytesFile("graph.json", []byte(`{"nodes":[]}`))
		assert.Equal(t, int64(12), f.Size)
		assert.Equal(t, "application/json", f.ContentType)
		assert.NoError(t, f.Close())

		part, err := f.readPart(2, 5)
		require.NoError(t, err)
		assert.Equal(t, `nodes`, string(part))

		_, err = f.readPart(10, 5)
		assert.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		f := NewBytesFile("blob.unknownext", []byte("x"))
		assert.Equal(t, "application/octet-stream", f.ContentType)
	})

	t.Run("explicit content type", func(t *testing.T) {
		f := NewFile("data", nil, 0, "text/plain")
		assert.Equal(t, "text/plain", f.ContentType)
	})

	t.Run("from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "edges.csv")
		require.NoError(t, os.WriteFile(path, []byte("_from,_to\n"), 0o644))

		f, err := OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, "edges.csv", f.Name)
		assert.Equal(t, int64(10), f.Size)

		part, err := f.readPart(0, f.Size)
		require.NoError(t, err)
		assert.Equal(t, "_from,_to\n", string(part))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := OpenFile(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := OpenFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}
