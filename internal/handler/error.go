package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse writes err as JSON, or as plain text when the client did not
// ask for JSON. Internal errors are logged and reported; their details never
// reach the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logger := middleware.GetLogger(r.Context())
		logger.Error("request failed",
			slog.String("op", domain.ErrorOp(err)),
			slog.String("error", err.Error()),
		)
		if code == domain.EINTERNAL {
			telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
				"op": domain.ErrorOp(err),
			})
		}
	}

	writeError(w, r, status, errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail errorDetail) {
	if !acceptsJSON(r) {
		http.Error(w, detail.Message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: detail})
}

// acceptsJSON reports whether the client asked for JSON through Accept,
// Content-Type or a .json path.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}

// NotFoundResponse writes a 404 for an unknown route.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "Not found"))
}

// InternalErrorResponse logs err and writes a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "internal error"))
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
