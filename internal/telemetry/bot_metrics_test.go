package telemetry_test

import (
	"testing"
	"time"

	"github.com/dukerupert/labelbot/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBotMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewBotMetrics("test", reg)

	m.Command("/returnlabel")
	m.Command("/returnlabel")
	m.Command("/parseaddress")
	m.Parsed("complete")
	m.Quote("success", 3)
	m.Quote("no_rates", 0)
	m.Purchased("USPS")
	m.Archived(false)
	m.Failure("purchase")
	m.UsageLogged(true)
	m.Submission("parcel")
	m.ObserveExternal("easypost", "get_rates", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsReceived.WithLabelValues("/returnlabel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsReceived.WithLabelValues("/parseaddress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AddressesParsed.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesRequested.WithLabelValues("no_rates")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LabelsPurchased.WithLabelValues("USPS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LabelsArchived.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowFailures.WithLabelValues("purchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsageLogWrites.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModalSubmissions.WithLabelValues("parcel")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RatesReturned))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExternalAPILatency))
}

func TestBotMetrics_NilSafe(t *testing.T) {
	var m *telemetry.BotMetrics

	assert.NotPanics(t, func() {
		m.Command("/returnlabel")
		m.Parsed("empty")
		m.Quote("error", 0)
		m.Purchased("UPS")
		m.Archived(true)
		m.Failure("quote")
		m.UsageLogged(false)
		m.Submission("rate")
		m.ObserveExternal("slack", "open_view", time.Now())
	})
}
