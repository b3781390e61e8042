package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счётчики диалогов и обращений к хранилищам
type Metrics struct {
	Started   prometheus.Counter
	Completed prometheus.Counter
	Cancelled prometheus.Counter
	Active    prometheus.Gauge
	Sinks     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadbot",
			Name:      "conversations_started_total",
			Help:      "Conversations started by start or restart commands.",
		}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadbot",
			Name:      "leads_completed_total",
			Help:      "Conversations that reached the final answer.",
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadbot",
			Name:      "conversations_cancelled_total",
			Help:      "Conversations cancelled by the user.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leadbot",
			Name:      "sessions_active",
			Help:      "Sessions in a non-terminal state.",
		}),
		Sinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadbot",
			Name:      "sink_results_total",
			Help:      "Lead deliveries by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Started, m.Completed, m.Cancelled, m.Active, m.Sinks)
	}
	return m
}

// SinkResult учитывает результат доставки лида
func (m *Metrics) SinkResult(sink string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Sinks.WithLabelValues(sink, outcome).Inc()
}
