package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/dukerupert/labelbot/internal/storage"
	"github.com/dukerupert/labelbot/internal/telemetry"
)

const (
	defaultDownloadTimeout = 30 * time.Second
	defaultMaxLabelBytes   = 5 << 20
)

// LabelService runs one return-label attempt: quote a shipment, then buy the
// chosen rate. No state is kept between calls; the caller carries the rate ID.
type LabelService interface {
	// Quote parses both address blocks, applies the configured defaults,
	// validates the shipment and returns the carrier rates, cheapest first.
	//
	// Returns a *domain.ValidationError keyed by field ("from_street1",
	// "to_zip", "weight", ...) when the input cannot be shipped.
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)

	// Purchase buys the label for a rate returned by Quote and fetches the
	// label document.
	//
	// A label whose document cannot be downloaded is still returned, with
	// nil Content; the purchase has already been charged. Archive failures
	// are logged and never fail the call.
	Purchase(ctx context.Context, rateID string) (*LabelDocument, error)
}

// QuoteRequest is the raw user input for a quote.
type QuoteRequest struct {
	FromText string
	ToText   string
	Parcel   shipping.Parcel

	// UserID tags errors reported to Sentry.
	UserID string

	// Reference is printed on the label when the carrier supports it.
	Reference string
}

// Quote is a validated shipment with its rates.
type Quote struct {
	Shipment shipping.Shipment
	Rates    []shipping.Rate
}

// LabelDocument is a purchased label ready to hand to the user.
type LabelDocument struct {
	TrackingNumber string
	Filename       string

	// URL is the carrier-hosted label.
	URL string

	// ArchiveURL is where the archived copy can be retrieved. Empty when
	// archiving is disabled or failed.
	ArchiveURL string

	// Content is the PDF, nil when the download failed.
	Content []byte
}

// LabelServiceConfig wires a LabelService.
type LabelServiceConfig struct {
	Parser    address.Parser
	Validator address.Validator
	Provider  shipping.Provider

	// ProviderName labels latency metrics, e.g. "easypost".
	ProviderName string

	// Store archives label documents. Nil disables archiving.
	Store storage.Store

	Defaults shipping.Defaults

	// HTTPClient downloads label documents. Defaults to a client with
	// Sentry tracing.
	HTTPClient      *http.Client
	DownloadTimeout time.Duration
	MaxLabelBytes   int64

	Metrics *telemetry.BotMetrics
	Logger  *slog.Logger
}

type labelService struct {
	parser       address.Parser
	validator    address.Validator
	provider     shipping.Provider
	providerName string
	store        storage.Store
	defaults     shipping.Defaults
	client       *http.Client
	timeout      time.Duration
	maxBytes     int64
	metrics      *telemetry.BotMetrics
	logger       *slog.Logger
}

// NewLabelService creates a LabelService. Provider is required; a nil Parser
// or Validator falls back to the keyword parser and BasicValidator.
func NewLabelService(cfg LabelServiceConfig) (LabelService, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("label service: provider is required")
	}

	s := &labelService{
		parser:       cfg.Parser,
		validator:    cfg.Validator,
		provider:     cfg.Provider,
		providerName: cfg.ProviderName,
		store:        cfg.Store,
		defaults:     cfg.Defaults,
		client:       cfg.HTTPClient,
		timeout:      cfg.DownloadTimeout,
		maxBytes:     cfg.MaxLabelBytes,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}

	if s.parser == nil {
		s.parser = address.NewKeywordParser()
	}
	if s.validator == nil {
		s.validator = address.NewBasicValidator()
	}
	if s.providerName == "" {
		s.providerName = "shipping"
	}
	if s.client == nil {
		s.client = &http.Client{Transport: &telemetry.HTTPTransport{}}
	}
	if s.timeout <= 0 {
		s.timeout = defaultDownloadTimeout
	}
	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxLabelBytes
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *labelService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	const op = "label.quote"

	from := s.parser.Parse(req.FromText)
	to := s.parser.Parse(req.ToText)
	shipment := shipping.BuildShipment(from, to, req.Parcel, s.defaults)
	shipment.Reference = strings.TrimSpace(req.Reference)

	var verr error
	for _, side := range []struct {
		name string
		addr *address.ParsedAddress
	}{
		{"from", &shipment.From},
		{"to", &shipment.To},
	} {
		normalized, fields, err := s.checkAddress(ctx, *side.addr)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to validate "+side.name+" address")
		}
		*side.addr = normalized
		for field, msg := range fields {
			verr = addFieldError(verr, op, side.name+"_"+field, msg)
		}
	}

	if perr := shipping.ValidateParcel(shipment.Parcel); perr != nil {
		fields := domain.GetValidationFields(perr)
		if fields == nil {
			return nil, perr
		}
		for field, msg := range fields {
			verr = addFieldError(verr, op, field, msg)
		}
	}

	if verr != nil {
		s.metrics.Quote("invalid", 0)
		return nil, verr
	}

	ctx, finish := telemetry.StartSpan(ctx, "label.quote", s.providerName)
	defer finish()

	start := time.Now()
	rates, err := s.provider.GetRates(ctx, shipment)
	s.metrics.ObserveExternal(s.providerName, "get_rates", start)
	if err == nil && len(rates) == 0 {
		err = shipping.ErrNoRates
	}
	if err != nil {
		outcome := "error"
		if errors.Is(err, shipping.ErrNoRates) {
			outcome = "no_rates"
		}
		s.metrics.Quote(outcome, 0)
		derr := fromShippingError(err, op)
		if domain.ErrorCode(derr) != domain.EINVALID {
			s.logger.Error("failed to get rates", "error", err, "user_id", req.UserID)
			telemetry.CaptureErrorWithUser(err, req.UserID, map[string]interface{}{
				"provider": s.providerName,
				"from_zip": shipment.From.Zip,
				"to_zip":   shipment.To.Zip,
			})
		}
		return nil, derr
	}

	s.metrics.Quote("success", len(rates))
	telemetry.AddBreadcrumb("label", "rates quoted", map[string]interface{}{
		"rates": len(rates),
	})

	return &Quote{Shipment: shipment, Rates: rates}, nil
}

// checkAddress validates one side of the shipment and returns its field
// errors. The validator's normalized address is returned when it is valid.
func (s *labelService) checkAddress(ctx context.Context, addr address.ParsedAddress) (address.ParsedAddress, map[string]string, error) {
	if addr.IsEmpty() {
		return addr, map[string]string{"address": "is required"}, nil
	}

	res, err := s.validator.Validate(ctx, addr)
	if err != nil {
		return addr, nil, err
	}

	var fields map[string]string
	for _, fe := range res.Errors {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[fe.Field] = fe.Message
	}
	if res.IsValid && res.NormalizedAddress != nil {
		addr = *res.NormalizedAddress
	}

	return addr, fields, nil
}

func addFieldError(err error, op, field, message string) error {
	if err == nil {
		return domain.NewValidationError(op, field, message)
	}
	return domain.AddFieldError(err, field, message)
}

func (s *labelService) Purchase(ctx context.Context, rateID string) (*LabelDocument, error) {
	const op = "label.purchase"

	rateID = strings.TrimSpace(rateID)
	if rateID == "" {
		return nil, ErrRateRequired
	}

	ctx, finish := telemetry.StartSpan(ctx, "label.purchase", s.providerName)
	defer finish()

	start := time.Now()
	label, err := s.provider.BuyLabel(ctx, rateID)
	s.metrics.ObserveExternal(s.providerName, "buy_label", start)
	if err != nil {
		return nil, fromShippingError(err, op)
	}

	tracking := label.TrackingNumber
	if tracking == "" {
		tracking = label.ID
	}

	logger := s.logger.With("tracking_number", tracking)
	logger.Info("label purchased", "rate_id", rateID)
	telemetry.AddBreadcrumb("label", "label purchased", map[string]interface{}{
		"tracking_number": tracking,
	})

	doc := &LabelDocument{
		TrackingNumber: label.TrackingNumber,
		Filename:       "label-" + tracking + ".pdf",
		URL:            label.LabelURL,
	}

	content, err := s.download(ctx, label.LabelURL)
	if err != nil {
		logger.Warn("failed to download label", "error", err, "url", label.LabelURL)
		s.metrics.Failure("download")
		return doc, nil
	}
	doc.Content = content

	if s.store != nil {
		doc.ArchiveURL = s.archive(ctx, logger, tracking, content)
	}

	return doc, nil
}

// archive stores the label document and returns its URL, or "" on failure.
// A document already archived under the same tracking number is kept.
func (s *labelService) archive(ctx context.Context, logger *slog.Logger, tracking string, content []byte) string {
	key := storage.LabelKey(tracking)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		logger.Warn("failed to check label archive", "error", err, "key", key)
	}
	if exists {
		logger.Info("label already archived", "key", key)
		return s.store.URL(key)
	}

	url, err := s.store.Put(ctx, key, bytes.NewReader(content), "application/pdf")
	s.metrics.Archived(err == nil)
	if err != nil {
		logger.Warn("failed to archive label", "error", err)
		return ""
	}
	return url
}

// download fetches a label document, bounded by the configured timeout and
// size limit.
func (s *labelService) download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("label has no document URL")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.metrics.ObserveExternal("label_host", "download", start)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch label: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching label", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read label: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, ErrLabelTooLarge
	}

	return body, nil
}
