package chat

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/labelbot/internal/telemetry"
	"github.com/slack-go/slack"
)

// SlackMessenger implements Messenger with the Slack Web API.
type SlackMessenger struct {
	client  *slack.Client
	metrics *telemetry.BotMetrics
	logger  *slog.Logger
}

// SlackConfig contains configuration for the Slack messenger.
type SlackConfig struct {
	BotToken string

	// APIURL overrides the Web API base URL. Used by tests.
	APIURL string

	Metrics *telemetry.BotMetrics
	Logger  *slog.Logger
}

// NewSlackMessenger creates a messenger for the bot token.
func NewSlackMessenger(cfg SlackConfig) (*SlackMessenger, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("slack bot token is required")
	}

	opts := []slack.Option{}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SlackMessenger{
		client:  slack.New(cfg.BotToken, opts...),
		metrics: cfg.Metrics,
		logger:  logger.With("component", "slack"),
	}, nil
}

func (m *SlackMessenger) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (string, error) {
	defer m.metrics.ObserveExternal("slack", "views.open", time.Now())

	resp, err := m.client.OpenViewContext(ctx, triggerID, view)
	if err != nil {
		return "", fmt.Errorf("failed to open view: %w", withResponseErrors(err, resp))
	}
	return resp.ID, nil
}

func (m *SlackMessenger) UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error {
	defer m.metrics.ObserveExternal("slack", "views.update", time.Now())

	resp, err := m.client.UpdateViewContext(ctx, view, "", "", viewID)
	if err != nil {
		return fmt.Errorf("failed to update view: %w", withResponseErrors(err, resp))
	}
	return nil
}

func (m *SlackMessenger) PostMessage(ctx context.Context, channelID, text string) error {
	defer m.metrics.ObserveExternal("slack", "chat.postMessage", time.Now())

	if _, _, err := m.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	return nil
}

func (m *SlackMessenger) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	defer m.metrics.ObserveExternal("slack", "chat.postEphemeral", time.Now())

	if _, err := m.client.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to post ephemeral message: %w", err)
	}
	return nil
}

func (m *SlackMessenger) UploadFile(ctx context.Context, file File) error {
	defer m.metrics.ObserveExternal("slack", "files.upload", time.Now())

	if len(file.Content) == 0 {
		return fmt.Errorf("file %q is empty", file.Filename)
	}

	summary, err := m.client.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:         bytes.NewReader(file.Content),
		FileSize:       len(file.Content),
		Filename:       file.Filename,
		Title:          file.Title,
		InitialComment: file.Comment,
		Channel:        file.ChannelID,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	m.logger.Debug("file uploaded", "file_id", summary.ID, "channel_id", file.ChannelID)
	return nil
}

// withResponseErrors appends the per-block errors Slack returns for an
// invalid view, which the plain error string omits.
func withResponseErrors(err error, resp *slack.ViewResponse) error {
	if resp == nil || len(resp.ResponseMetadata.Messages) == 0 {
		return err
	}
	return fmt.Errorf("%w: %v", err, resp.ResponseMetadata.Messages)
}
