package handler

import (
	"net/http"
	"time"
)

// Health reports that the process is serving requests.
func Health(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   now().UTC().Format(time.RFC3339),
		})
	}
}
