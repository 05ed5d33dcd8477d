package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BotMetrics holds Prometheus metrics for the label workflow.
type BotMetrics struct {
	// Chat surface
	CommandsReceived *prometheus.CounterVec
	ModalSubmissions *prometheus.CounterVec

	// Address parsing
	AddressesParsed *prometheus.CounterVec

	// Rates and labels
	QuotesRequested *prometheus.CounterVec
	RatesReturned   prometheus.Histogram
	LabelsPurchased *prometheus.CounterVec
	LabelsArchived  *prometheus.CounterVec

	// Failures by workflow stage
	WorkflowFailures *prometheus.CounterVec

	// Usage log
	UsageLogWrites *prometheus.CounterVec

	// External API performance
	ExternalAPILatency *prometheus.HistogramVec
}

// NewBotMetrics registers the bot metrics with reg.
// A nil reg uses the default Prometheus registerer.
func NewBotMetrics(namespace string, reg prometheus.Registerer) *BotMetrics {
	if namespace == "" {
		namespace = "labelbot"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "bot"

	return &BotMetrics{
		CommandsReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total slash commands received",
			},
			[]string{"command"},
		),
		ModalSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "modal_submissions_total",
				Help:      "Total modal submissions by workflow step",
			},
			[]string{"step"}, // step: addresses, parcel, rate
		),
		AddressesParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "addresses_parsed_total",
				Help:      "Total free-text addresses parsed by outcome",
			},
			[]string{"outcome"}, // outcome: complete, partial, empty
		),
		QuotesRequested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "quotes_total",
				Help:      "Total rate quote requests by outcome",
			},
			[]string{"outcome"}, // outcome: success, invalid, no_rates, error
		),
		RatesReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rates_per_quote",
				Help:      "Number of rates offered per successful quote",
				Buckets:   []float64{1, 2, 4, 8, 16, 32},
			},
		),
		LabelsPurchased: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "labels_purchased_total",
				Help:      "Total labels purchased by carrier",
			},
			[]string{"carrier"},
		),
		LabelsArchived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "labels_archived_total",
				Help:      "Total label documents written to storage by outcome",
			},
			[]string{"outcome"}, // outcome: success, error
		),
		WorkflowFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workflow_failures_total",
				Help:      "Total workflow failures reported to users",
			},
			[]string{"stage"}, // stage: quote, purchase, download, deliver
		),
		UsageLogWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "usage_log_writes_total",
				Help:      "Total usage log appends by outcome",
			},
			[]string{"outcome"},
		),
		ExternalAPILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "external_api_duration_seconds",
				Help:      "Duration of calls to the carrier and chat APIs",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service", "operation"}, // service: easypost, slack, label_host
		),
	}
}

// The helpers below are safe to call on a nil *BotMetrics so packages can be
// used without metrics wired in (CLI, tests).

// Command counts a slash command.
func (m *BotMetrics) Command(command string) {
	if m == nil {
		return
	}
	m.CommandsReceived.WithLabelValues(command).Inc()
}

// Submission counts a modal submission for a workflow step.
func (m *BotMetrics) Submission(step string) {
	if m == nil {
		return
	}
	m.ModalSubmissions.WithLabelValues(step).Inc()
}

// Parsed counts a parse outcome.
func (m *BotMetrics) Parsed(outcome string) {
	if m == nil {
		return
	}
	m.AddressesParsed.WithLabelValues(outcome).Inc()
}

// Quote counts a quote outcome and, on success, the number of rates offered.
func (m *BotMetrics) Quote(outcome string, rates int) {
	if m == nil {
		return
	}
	m.QuotesRequested.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.RatesReturned.Observe(float64(rates))
	}
}

// Purchased counts a purchased label.
func (m *BotMetrics) Purchased(carrier string) {
	if m == nil {
		return
	}
	m.LabelsPurchased.WithLabelValues(carrier).Inc()
}

// Archived counts a label archive attempt.
func (m *BotMetrics) Archived(ok bool) {
	if m == nil {
		return
	}
	m.LabelsArchived.WithLabelValues(outcome(ok)).Inc()
}

// Failure counts a failure reported to the user at stage.
func (m *BotMetrics) Failure(stage string) {
	if m == nil {
		return
	}
	m.WorkflowFailures.WithLabelValues(stage).Inc()
}

// UsageLogged counts a usage log append.
func (m *BotMetrics) UsageLogged(ok bool) {
	if m == nil {
		return
	}
	m.UsageLogWrites.WithLabelValues(outcome(ok)).Inc()
}

// ObserveExternal records the duration of an external API call started at start.
func (m *BotMetrics) ObserveExternal(service, operation string, start time.Time) {
	if m == nil {
		return
	}
	m.ExternalAPILatency.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
