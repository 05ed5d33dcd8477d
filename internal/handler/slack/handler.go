// Package slack serves the Slack slash commands and modal interactions of
// the return-label workflow.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/chat"
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/service"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/dukerupert/labelbot/internal/telemetry"
	"github.com/dukerupert/labelbot/internal/usagelog"
)

const defaultAsyncTimeout = 2 * time.Minute

// UsageRecorder records command invocations.
type UsageRecorder interface {
	Append(ctx context.Context, e usagelog.Entry) error
}

// Handler answers Slack commands and view submissions.
//
// Slack requires an answer within three seconds, so quoting and purchasing
// run in background goroutines that report back through the Messenger.
// Call Wait during shutdown to let them finish.
type Handler struct {
	labels    service.LabelService
	parser    address.Parser
	messenger chat.Messenger
	usage     UsageRecorder
	defaults  shipping.Defaults
	config    Config
	metrics   *telemetry.BotMetrics
	logger    *slog.Logger

	wg sync.WaitGroup
}

// Config contains the command names and timeouts of the handler.
type Config struct {
	// ReturnLabelCommand opens the label workflow, e.g. "/returnlabel".
	ReturnLabelCommand string

	// ParseAddressCommand echoes the parsed fields of its text, e.g. "/parseaddress".
	ParseAddressCommand string

	// AsyncTimeout bounds each background quote or purchase.
	AsyncTimeout time.Duration
}

// Deps are the collaborators of a Handler. Usage and Metrics may be nil.
type Deps struct {
	Labels    service.LabelService
	Parser    address.Parser
	Messenger chat.Messenger
	Usage     UsageRecorder
	Defaults  shipping.Defaults
	Metrics   *telemetry.BotMetrics
	Logger    *slog.Logger
}

// NewHandler creates a Slack handler.
func NewHandler(deps Deps, config Config) *Handler {
	if config.AsyncTimeout <= 0 {
		config.AsyncTimeout = defaultAsyncTimeout
	}
	parser := deps.Parser
	if parser == nil {
		parser = address.NewKeywordParser()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		labels:    deps.Labels,
		parser:    parser,
		messenger: deps.Messenger,
		usage:     deps.Usage,
		defaults:  deps.Defaults,
		config:    config,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// Wait blocks until every background quote and purchase has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// goAsync runs fn in the background with a fresh context bounded by the
// async timeout. The request context is not used: it ends with the response.
func (h *Handler) goAsync(logger *slog.Logger, fn func(ctx context.Context)) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in background task", "panic", r)
				telemetry.CaptureError(fmt.Errorf("panic in background task: %v", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), h.config.AsyncTimeout)
		defer cancel()

		fn(middleware.WithLogger(ctx, logger))
	}()
}

// record appends a command to the usage log. Failures are logged and
// otherwise ignored.
func (h *Handler) record(ctx context.Context, commandType, userID, channelID, text string) {
	if h.usage == nil {
		return
	}

	err := h.usage.Append(ctx, usagelog.Entry{
		CommandType: commandType,
		UserID:      userID,
		ChannelID:   channelID,
		Text:        text,
	})
	h.metrics.UsageLogged(err == nil)
	if err != nil {
		middleware.GetLogger(ctx, h.logger).Warn("failed to record usage", "error", err, "command", commandType)
	}
}
