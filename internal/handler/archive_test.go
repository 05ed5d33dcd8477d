package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/labelbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelArchive(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/labels")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), storage.LabelKey("9400111"), strings.NewReader("%PDF-1.4 label"), "application/pdf")
	require.NoError(t, err)

	srv := http.StripPrefix("/labels", LabelArchive(store))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"archived label", "/labels/labels/9400111.pdf", http.StatusOK, "%PDF-1.4 label"},
		{"unknown label", "/labels/labels/9400999.pdf", http.StatusNotFound, ""},
		{"traversal", "/labels/../secret.pdf", http.StatusNotFound, ""},
		{"bare prefix", "/labels/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			rec := httptest.NewRecorder()

			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
