package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/chat"
	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/dukerupert/labelbot/internal/handler"
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/service"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/dukerupert/labelbot/internal/telemetry"
	goslack "github.com/slack-go/slack"
)

// HandleInteraction serves POST /slack/interactions. Only view submissions
// of the label workflow are acted on; other interactions are acknowledged.
func (h *Handler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	var payload goslack.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &payload); err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "slack.interaction", "Invalid interaction payload"))
		return
	}

	if payload.Type != goslack.InteractionTypeViewSubmission {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	logger := middleware.GetLogger(ctx, h.logger).With(
		"callback_id", payload.View.CallbackID,
		"user_id", payload.User.ID,
	)
	ctx = middleware.WithLogger(ctx, logger)

	state, err := decodeState(payload.View.PrivateMetadata)
	if err != nil {
		logger.Warn("invalid view state", "error", err)
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "slack.interaction", "Invalid view state"))
		return
	}
	if state.UserID == "" {
		state.UserID = payload.User.ID
	}

	h.metrics.Submission(payload.View.CallbackID)

	switch payload.View.CallbackID {
	case callbackAddresses:
		h.submitAddresses(w, payload.View, state)
	case callbackParcel:
		h.submitParcel(w, r.WithContext(ctx), payload.View, state)
	case callbackRates:
		h.submitRate(ctx, w, payload.View, state)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) submitAddresses(w http.ResponseWriter, view goslack.View, state workflowState) {
	state.From = inputValue(view, fieldFrom)
	state.To = inputValue(view, fieldTo)

	errs := make(map[string]string)
	if msg := h.checkAddress(state.From, h.defaults.From); msg != "" {
		errs[fieldFrom] = msg
	}
	if msg := h.checkAddress(state.To, h.defaults.To); msg != "" {
		errs[fieldTo] = msg
	}
	if len(errs) > 0 {
		respond(w, goslack.NewErrorsViewSubmissionResponse(errs))
		return
	}

	next := parcelView(state, h.defaults.Parcel)
	respond(w, goslack.NewUpdateViewSubmissionResponse(&next))
}

// checkAddress returns an inline error for an address block, or "" when the
// block is usable. A blank block is usable only when a default exists.
func (h *Handler) checkAddress(text string, def address.ParsedAddress) string {
	if text == "" {
		if def.IsEmpty() {
			return "Enter an address."
		}
		return ""
	}

	if utf8.RuneCountInString(text) > maxAddressLength {
		return fmt.Sprintf("Keep the address under %d characters.", maxAddressLength)
	}

	parsed := h.parser.Parse(text)
	h.metrics.Parsed(parseOutcome(parsed))
	if parsed.Street1 == "" || parsed.City == "" {
		return "Could not find a street and a city. Put the city, state and ZIP on the last line."
	}
	return ""
}

func (h *Handler) submitParcel(w http.ResponseWriter, r *http.Request, view goslack.View, state workflowState) {
	logger := middleware.GetLogger(r.Context(), h.logger)

	parcel := shipping.Parcel{
		Length:       inputValue(view, fieldLength),
		Width:        inputValue(view, fieldWidth),
		Height:       inputValue(view, fieldHeight),
		Weight:       inputValue(view, fieldWeight),
		DistanceUnit: inputValue(view, fieldDistanceUnit),
		MassUnit:     inputValue(view, fieldMassUnit),
	}.WithDefaults(h.defaults.Parcel)

	if err := shipping.ValidateParcel(parcel); err != nil {
		fields := domain.GetValidationFields(err)
		if fields == nil {
			logger.Error("failed to validate parcel", "error", err)
			handler.InternalErrorResponse(w, r, err)
			return
		}
		errs := make(map[string]string, len(fields))
		for field, msg := range fields {
			errs[field] = sentence(msg)
		}
		respond(w, goslack.NewErrorsViewSubmissionResponse(errs))
		return
	}

	state.Parcel = parcel
	loading := loadingView(state)
	respond(w, goslack.NewUpdateViewSubmissionResponse(&loading))

	viewID := view.ID
	h.goAsync(logger, func(ctx context.Context) {
		h.quote(ctx, viewID, state)
	})
}

// quote fetches rates and replaces the loading modal with the rates or an
// error.
func (h *Handler) quote(ctx context.Context, viewID string, state workflowState) {
	logger := middleware.GetLogger(ctx, h.logger)

	var next goslack.ModalViewRequest
	q, err := h.labels.Quote(ctx, service.QuoteRequest{
		FromText: state.From,
		ToText:   state.To,
		Parcel:   state.Parcel,
		UserID:   state.UserID,
	})
	if err != nil {
		h.metrics.Failure("quote")
		logger.Warn("quote failed", "error", err)
		next = errorView(domain.ErrorMessage(err), domain.GetValidationFields(err), state)
	} else {
		next = ratesView(state, q.Rates)
	}

	if err := h.messenger.UpdateView(ctx, viewID, next); err != nil {
		h.metrics.Failure("update_view")
		logger.Error("failed to update view", "error", err, "view_id", viewID)
		telemetry.CaptureErrorWithUser(err, state.UserID, map[string]interface{}{"view_id": viewID})
		h.notify(ctx, logger, state, "Sorry, the rates could not be shown. Close the form and run the command again.")
	}
}

func (h *Handler) submitRate(ctx context.Context, w http.ResponseWriter, view goslack.View, state workflowState) {
	rateID := inputValue(view, fieldRate)
	if rateID == "" {
		respond(w, goslack.NewErrorsViewSubmissionResponse(map[string]string{fieldRate: "Choose a rate."}))
		return
	}
	rate, ok := state.rate(rateID)
	if !ok {
		respond(w, goslack.NewErrorsViewSubmissionResponse(map[string]string{fieldRate: "Choose one of the listed rates."}))
		return
	}

	respond(w, goslack.NewClearViewSubmissionResponse())

	logger := middleware.GetLogger(ctx, h.logger).With("rate_id", rate.ID)
	h.goAsync(logger, func(ctx context.Context) {
		h.purchase(ctx, state, rate)
	})
}

// purchase buys the label and posts it to the channel the workflow started
// in. Failures are reported to the user only.
func (h *Handler) purchase(ctx context.Context, state workflowState, rate rateRef) {
	logger := middleware.GetLogger(ctx, h.logger)

	doc, err := h.labels.Purchase(ctx, rate.ID)
	if err != nil {
		h.metrics.Failure("purchase")
		logger.Error("purchase failed", "error", err)
		if domain.IsCode(err, domain.EINTERNAL) || domain.IsCode(err, domain.EUNAVAILABLE) {
			telemetry.CaptureErrorWithUser(err, state.UserID, map[string]interface{}{"rate_id": rate.ID})
		}
		h.notify(ctx, logger, state, "Sorry, the label could not be bought. "+domain.ErrorMessage(err))
		return
	}
	h.metrics.Purchased(rate.Carrier)

	text := fmt.Sprintf("<@%s> created a return label (%s %s). Tracking number: `%s`",
		state.UserID, rate.Carrier, rate.Service, doc.TrackingNumber)
	if doc.Content == nil {
		text += "\nDownload the label: " + doc.URL
	}
	if err := h.messenger.PostMessage(ctx, state.ChannelID, text); err != nil {
		h.metrics.Failure("post_message")
		logger.Error("failed to post label message", "error", err)
		h.notify(ctx, logger, state, fmt.Sprintf("Your label is ready. Tracking number: %s\n%s", doc.TrackingNumber, doc.URL))
		return
	}

	if doc.Content == nil {
		return
	}
	if doc.ArchiveURL != "" {
		logger.Info("label archived", "tracking_number", doc.TrackingNumber, "archive_url", doc.ArchiveURL)
	}

	err = h.messenger.UploadFile(ctx, chat.File{
		ChannelID: state.ChannelID,
		Filename:  doc.Filename,
		Title:     "Return label " + doc.TrackingNumber,
		Content:   doc.Content,
	})
	if err != nil {
		h.metrics.Failure("upload")
		logger.Error("failed to upload label", "error", err)
		h.notify(ctx, logger, state, "The label file could not be attached. Download it here: "+doc.URL)
	}
}

func (h *Handler) notify(ctx context.Context, logger *slog.Logger, state workflowState, text string) {
	if err := h.messenger.PostEphemeral(ctx, state.ChannelID, state.UserID, text); err != nil {
		logger.Error("failed to notify user", "error", err)
	}
}

// inputValue returns the submitted value of the input whose block and
// action IDs are id.
func inputValue(view goslack.View, id string) string {
	if view.State == nil {
		return ""
	}
	action, ok := view.State.Values[id][id]
	if !ok {
		return ""
	}
	if action.SelectedOption.Value != "" {
		return action.SelectedOption.Value
	}
	return strings.TrimSpace(action.Value)
}

func respond(w http.ResponseWriter, resp *goslack.ViewSubmissionResponse) {
	handler.JSON(w, http.StatusOK, resp)
}

func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
