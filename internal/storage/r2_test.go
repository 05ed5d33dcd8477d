package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dukerupert/labelbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket is a path-style S3 endpoint holding objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.objects[r.URL.Path] = body
		b.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := b.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := b.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", b.types[r.URL.Path])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestR2Store(t *testing.T, publicURL string) (*storage.R2Store, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	s, err := storage.NewR2Store(context.Background(), storage.R2Config{
		AccountID:   "acct",
		AccessKeyID: "key",
		SecretKey:   "secret",
		BucketName:  "labels",
		PublicURL:   publicURL,
		Endpoint:    srv.URL,
	})
	require.NoError(t, err)
	return s, bucket
}

func TestR2Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, bucket := newTestR2Store(t, "https://files.example.com/")
	key := storage.LabelKey("9400100000000000000000")

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	url, err := s.Put(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/labels/9400100000000000000000.pdf", url)

	bucket.mu.Lock()
	assert.Equal(t, []byte("%PDF-1.4"), bucket.objects["/labels/labels/9400100000000000000000.pdf"])
	assert.Equal(t, "application/pdf", bucket.types["/labels/labels/9400100000000000000000.pdf"])
	bucket.mu.Unlock()

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))
}

func TestR2Store_GetMissing(t *testing.T) {
	s, _ := newTestR2Store(t, "")

	_, err := s.Get(context.Background(), storage.LabelKey("9400199999999999999999"))
	var se *storage.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not_found", se.ErrorCode())
}

func TestR2Store_URLWithoutPublicURL(t *testing.T) {
	s, _ := newTestR2Store(t, "")
	assert.Equal(t, "labels/x.pdf", s.URL("labels/x.pdf"))
}
