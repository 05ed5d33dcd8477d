package slack

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/dukerupert/labelbot/internal/handler"
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/usagelog"
	goslack "github.com/slack-go/slack"
)

// HandleCommand serves POST /slack/commands.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := goslack.SlashCommandParse(r)
	if err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "slack.command", "Invalid slash command payload"))
		return
	}

	ctx := r.Context()
	logger := middleware.GetLogger(ctx, h.logger).With(
		"command", cmd.Command,
		"user_id", cmd.UserID,
		"channel_id", cmd.ChannelID,
	)
	ctx = middleware.WithLogger(ctx, logger)
	h.metrics.Command(cmd.Command)

	switch cmd.Command {
	case h.config.ReturnLabelCommand:
		h.record(ctx, usagelog.CommandReturnLabel, cmd.UserID, cmd.ChannelID, cmd.Text)

		state := workflowState{ChannelID: cmd.ChannelID, UserID: cmd.UserID}
		view := addressesView(state, !h.defaults.From.IsEmpty(), !h.defaults.To.IsEmpty())
		if _, err := h.messenger.OpenView(ctx, cmd.TriggerID, view); err != nil {
			logger.Error("failed to open label form", "error", err)
			h.metrics.Failure("open_view")
			reply(w, "Sorry, the return label form could not be opened. Please try again.")
			return
		}
		w.WriteHeader(http.StatusOK)

	case h.config.ParseAddressCommand:
		h.record(ctx, usagelog.CommandParseAddress, cmd.UserID, cmd.ChannelID, cmd.Text)

		if strings.TrimSpace(cmd.Text) == "" {
			reply(w, fmt.Sprintf("Usage: `%s` followed by an address, one line per part.", cmd.Command))
			return
		}
		parsed := h.parser.Parse(cmd.Text)
		h.metrics.Parsed(parseOutcome(parsed))
		reply(w, formatParsed(parsed))

	default:
		logger.Warn("unknown command")
		reply(w, fmt.Sprintf("Sorry, I don't know the command `%s`.", cmd.Command))
	}
}

type commandReply struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// reply answers a command with a message only the caller sees.
func reply(w http.ResponseWriter, text string) {
	handler.JSON(w, http.StatusOK, commandReply{
		ResponseType: goslack.ResponseTypeEphemeral,
		Text:         text,
	})
}

func parseOutcome(a address.ParsedAddress) string {
	switch {
	case a.IsEmpty():
		return "empty"
	case a.Complete():
		return "complete"
	default:
		return "partial"
	}
}

func formatParsed(a address.ParsedAddress) string {
	var b strings.Builder
	b.WriteString("*Parsed address*\n")
	for _, f := range []struct {
		label string
		value string
	}{
		{"Name", a.Name},
		{"Company", a.Company},
		{"Street 1", a.Street1},
		{"Street 2", a.Street2},
		{"City", a.City},
		{"State", a.State},
		{"ZIP", a.Zip},
	} {
		v := f.value
		if v == "" {
			v = "_(none)_"
		}
		fmt.Fprintf(&b, "%s: %s\n", f.label, v)
	}
	if !a.Complete() {
		b.WriteString(":warning: Street, city, state and ZIP are needed to ship.")
	}
	return strings.TrimRight(b.String(), "\n")
}
