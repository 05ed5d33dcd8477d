package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/storage"
)

// LabelArchive serves archived label documents from store. The request path,
// with the mount prefix already stripped, is the storage key.
func LabelArchive(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")

		rc, err := store.Get(r.Context(), key)
		if err != nil {
			var se *storage.StorageError
			if errors.As(err, &se) && se.ErrorCode() != "internal" {
				NotFoundResponse(w, r)
				return
			}
			InternalErrorResponse(w, r, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, rc); err != nil {
			middleware.GetLogger(r.Context()).Warn("failed to stream archived label", "key", key, "error", err)
		}
	}
}
