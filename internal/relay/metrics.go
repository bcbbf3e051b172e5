package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the relay's prometheus collectors.
type Metrics struct {
	AccountsCreated prometheus.Counter
	Logins          *prometheus.CounterVec
	Lookups         *prometheus.CounterVec
	Delivered       prometheus.Counter
	Undelivered     prometheus.Counter
	ActiveSessions  prometheus.Gauge
	ProtocolErrors  prometheus.Counter

	registry *prometheus.Registry
}

func newMetrics() *Metrics {
	m := &Metrics{
		AccountsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pqchat_relay_accounts_created_total",
				Help: "Number of accounts registered",
			},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqchat_relay_logins_total",
				Help: "Number of login attempts by result",
			},
			[]string{"result"},
		),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqchat_relay_contact_lookups_total",
				Help: "Number of contact lookups by result",
			},
			[]string{"result"},
		),
		Delivered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pqchat_relay_messages_delivered_total",
				Help: "Number of messages forwarded to a live session",
			},
		),
		Undelivered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pqchat_relay_messages_undelivered_total",
				Help: "Number of messages dropped because the recipient was offline",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pqchat_relay_active_sessions",
				Help: "Number of authenticated connections bound in the session registry",
			},
		),
		ProtocolErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pqchat_relay_protocol_errors_total",
				Help: "Number of connections closed for a protocol or authentication error",
			},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.AccountsCreated,
		m.Logins,
		m.Lookups,
		m.Delivered,
		m.Undelivered,
		m.ActiveSessions,
		m.ProtocolErrors,
	)
	return m
}

// Registry returns the registry all relay collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
