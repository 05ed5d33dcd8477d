package slack

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dukerupert/labelbot/internal/shipping"
	goslack "github.com/slack-go/slack"
)

// View callback IDs route submissions to their workflow step.
const (
	callbackAddresses = "label_addresses"
	callbackParcel    = "label_parcel"
	callbackRates     = "label_rates"
	callbackStatus    = "label_status"
)

// Block and action IDs of the modal inputs. Each input uses the same ID for
// its block and its element.
const (
	fieldFrom         = "from_address"
	fieldTo           = "to_address"
	fieldLength       = "length"
	fieldWidth        = "width"
	fieldHeight       = "height"
	fieldWeight       = "weight"
	fieldDistanceUnit = "distance_unit"
	fieldMassUnit     = "mass_unit"
	fieldRate         = "rate"
)

// maxRateOptions is the radio button limit of a Slack input block.
const maxRateOptions = 10

// maxAddressLength caps each address block. Both blocks travel in the view's
// private metadata, which Slack limits to 3000 characters.
const maxAddressLength = 500

// workflowState travels between steps in the view's private metadata.
type workflowState struct {
	ChannelID string          `json:"channel_id"`
	UserID    string          `json:"user_id"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	Parcel    shipping.Parcel `json:"parcel"`
	Rates     []rateRef       `json:"rates,omitempty"`
}

// rateRef is the part of a quoted rate needed after the user picks one.
type rateRef struct {
	ID      string `json:"id"`
	Carrier string `json:"carrier"`
	Service string `json:"service"`
}

func (s workflowState) encode() string {
	b, _ := json.Marshal(s)
	return string(b)
}

func decodeState(meta string) (workflowState, error) {
	var s workflowState
	if meta == "" {
		return s, fmt.Errorf("view has no workflow state")
	}
	if err := json.Unmarshal([]byte(meta), &s); err != nil {
		return s, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	return s, nil
}

func (s workflowState) rate(id string) (rateRef, bool) {
	for _, r := range s.Rates {
		if r.ID == id {
			return r, true
		}
	}
	return rateRef{}, false
}

func plain(text string) *goslack.TextBlockObject {
	return goslack.NewTextBlockObject(goslack.PlainTextType, text, false, false)
}

func mrkdwn(text string) *goslack.TextBlockObject {
	return goslack.NewTextBlockObject(goslack.MarkdownType, text, false, false)
}

func modal(callbackID, title, submit string, state workflowState, blocks ...goslack.Block) goslack.ModalViewRequest {
	v := goslack.ModalViewRequest{
		Type:            goslack.VTModal,
		CallbackID:      callbackID,
		Title:           plain(title),
		Close:           plain("Cancel"),
		PrivateMetadata: state.encode(),
		Blocks:          goslack.Blocks{BlockSet: blocks},
	}
	if submit != "" {
		v.Submit = plain(submit)
	}
	return v
}

func textInput(id, label, hint, initial string, maxLength int, multiline, optional bool) *goslack.InputBlock {
	el := goslack.NewPlainTextInputBlockElement(nil, id)
	el.Multiline = multiline
	el.InitialValue = initial
	el.MaxLength = maxLength

	var hintText *goslack.TextBlockObject
	if hint != "" {
		hintText = plain(hint)
	}

	block := goslack.NewInputBlock(id, plain(label), hintText, el)
	block.Optional = optional
	return block
}

func unitSelect(id, label, initial string, units ...string) *goslack.InputBlock {
	options := make([]*goslack.OptionBlockObject, 0, len(units))
	var selected *goslack.OptionBlockObject
	for _, u := range units {
		opt := goslack.NewOptionBlockObject(u, plain(u), nil)
		if u == initial {
			selected = opt
		}
		options = append(options, opt)
	}

	el := goslack.NewOptionsSelectBlockElement(goslack.OptTypeStatic, plain(label), id, options...)
	el.InitialOption = selected
	return goslack.NewInputBlock(id, plain(label), nil, el)
}

// addressesView is the first step: the from and to address blocks.
func addressesView(state workflowState, hasDefaultFrom, hasDefaultTo bool) goslack.ModalViewRequest {
	fromHint := "Name, company, street and city/state/ZIP, one per line."
	if hasDefaultFrom {
		fromHint = "Leave blank to use the default sender."
	}
	toHint := "Leave blank to ship to the default return address."
	if !hasDefaultTo {
		toHint = "Name, company, street and city/state/ZIP, one per line."
	}

	return modal(callbackAddresses, "Return label", "Next", state,
		textInput(fieldFrom, "Ship from", fromHint, state.From, maxAddressLength, true, hasDefaultFrom),
		textInput(fieldTo, "Ship to", toHint, state.To, maxAddressLength, true, hasDefaultTo),
	)
}

// parcelView is the second step, pre-filled with the default parcel.
func parcelView(state workflowState, def shipping.Parcel) goslack.ModalViewRequest {
	p := state.Parcel
	if p.IsBlank() {
		p = def
	}
	p = p.WithDefaults(def)

	return modal(callbackParcel, "Package", "Get rates", state,
		textInput(fieldLength, "Length", "", p.Length, 0, false, false),
		textInput(fieldWidth, "Width", "", p.Width, 0, false, false),
		textInput(fieldHeight, "Height", "", p.Height, 0, false, false),
		unitSelect(fieldDistanceUnit, "Distance unit", p.DistanceUnit, shipping.UnitInch, shipping.UnitCentimeter),
		textInput(fieldWeight, "Weight", "", p.Weight, 0, false, false),
		unitSelect(fieldMassUnit, "Mass unit", p.MassUnit, shipping.UnitOunce, shipping.UnitPound, shipping.UnitGram, shipping.UnitKilogram),
	)
}

// statusView is a modal without a submit button showing a message.
func statusView(title, text string, state workflowState) goslack.ModalViewRequest {
	return modal(callbackStatus, title, "", state,
		goslack.NewSectionBlock(mrkdwn(text), nil, nil),
	)
}

func loadingView(state workflowState) goslack.ModalViewRequest {
	return statusView("Return label", ":hourglass_flowing_sand: Fetching rates...", state)
}

func errorView(message string, fields map[string]string, state workflowState) goslack.ModalViewRequest {
	var b strings.Builder
	b.WriteString(":warning: ")
	b.WriteString(message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n• *%s*: %s", fieldLabel(k), fields[k])
	}

	return statusView("Return label", b.String(), state)
}

// ratesView is the last step: one radio option per rate, cheapest first.
func ratesView(state workflowState, rates []shipping.Rate) goslack.ModalViewRequest {
	if len(rates) > maxRateOptions {
		rates = rates[:maxRateOptions]
	}

	state.Rates = make([]rateRef, 0, len(rates))
	options := make([]*goslack.OptionBlockObject, 0, len(rates))
	for _, r := range rates {
		state.Rates = append(state.Rates, rateRef{ID: r.ID, Carrier: r.Carrier, Service: r.Service})
		options = append(options, goslack.NewOptionBlockObject(r.ID, plain(rateTitle(r)), plain(rateDetail(r))))
	}

	el := goslack.NewRadioButtonsBlockElement(fieldRate, options...)
	if len(options) > 0 {
		el.InitialOption = options[0]
	}

	return modal(callbackRates, "Choose a rate", "Buy label", state,
		goslack.NewInputBlock(fieldRate, plain("Rates"), nil, el),
	)
}

func rateTitle(r shipping.Rate) string {
	return fmt.Sprintf("%s %s: %s %s", r.Carrier, r.Service, r.Price.StringFixed(2), r.Currency)
}

func rateDetail(r shipping.Rate) string {
	switch r.TransitDays {
	case 0:
		return "Delivery time unknown"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", r.TransitDays)
	}
}

// fieldLabel turns a validation field key such as "to_zip" into a label.
func fieldLabel(key string) string {
	side, field, ok := strings.Cut(key, "_")
	if !ok || (side != "from" && side != "to") {
		return strings.ReplaceAll(key, "_", " ")
	}
	return side + " " + strings.ReplaceAll(field, "_", " ")
}
