package telemetry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/labelbot/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []telemetry.SentryConfig{
		{Enabled: false},
		{Enabled: true, DSN: ""},
	} {
		cleanup, err := telemetry.InitSentry(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, cleanup)
		cleanup()

		assert.False(t, telemetry.IsEnabled())
	}

	assert.NotPanics(t, func() {
		telemetry.CaptureError(errors.New("boom"))
		telemetry.CaptureErrorWithUser(errors.New("boom"), "U123", nil)
		telemetry.CaptureErrorFromContext(context.Background(), errors.New("boom"), nil)
		telemetry.AddBreadcrumb("workflow", "quote", nil)
	})

	ctx, finish := telemetry.StartSpan(context.Background(), "label.quote", "rates")
	finish()
	assert.NotNil(t, ctx)
}

func TestHTTPTransport_PassesThroughWhenDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: &telemetry.HTTPTransport{}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestSentryMiddleware_Disabled(t *testing.T) {
	called := false
	h := telemetry.SentryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
