package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robinvdvleuten/cardledger/batch"
)

// metrics describe the last processed month. Each server owns its registry.
type metrics struct {
	registry *prometheus.Registry

	reloads      *prometheus.CounterVec
	accounts     prometheus.Gauge
	overdrawn    prometheus.Gauge
	rejected     prometheus.Gauge
	transactions prometheus.Gauge
	denied       *prometheus.GaugeVec
	rowErrors    prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardledger_reloads_total",
				Help: "Total number of times the input was processed",
			},
			[]string{"result"},
		),
		accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cardledger_accounts",
			Help: "Accounts loaded in the last run",
		}),
		overdrawn: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cardledger_accounts_overdrawn",
			Help: "Accounts whose closing balance is above their limit",
		}),
		rejected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cardledger_accounts_rejected",
			Help: "Accounts rejected for an invalid card number",
		}),
		transactions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cardledger_transactions",
			Help: "Transactions read in the last run",
		}),
		denied: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cardledger_transactions_denied",
				Help: "Transactions denied in the last run",
			},
			[]string{"kind"},
		),
		rowErrors: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cardledger_row_errors",
			Help: "Malformed rows skipped in the last run",
		}),
	}
}

func (m *metrics) observe(res *batch.Result) {
	m.reloads.WithLabelValues("ok").Inc()

	m.accounts.Set(float64(res.Ledger.Len()))
	m.rejected.Set(float64(len(res.Rejected)))
	m.transactions.Set(float64(len(res.Transactions)))
	m.rowErrors.Set(float64(len(res.RowErrors)))

	overdrawn := 0
	for _, stmt := range res.Statements {
		if stmt.Overdrawn() {
			overdrawn++
		}
	}
	m.overdrawn.Set(float64(overdrawn))

	m.denied.Reset()
	for _, t := range res.Denied {
		if d := t.Denial(); d != nil {
			m.denied.WithLabelValues(d.Kind.String()).Inc()
		}
	}
}

func (m *metrics) failed() {
	m.reloads.WithLabelValues("error").Inc()
}
