package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSinkResult(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SinkResult("store", nil)
	m.SinkResult("store", errors.New("boom"))
	m.SinkResult("store", errors.New("boom"))
	m.SinkResult("notifier", nil)

	if got := testutil.ToFloat64(m.Sinks.WithLabelValues("store", "error")); got != 2 {
		t.Fatalf("store errors: %v", got)
	}
	if got := testutil.ToFloat64(m.Sinks.WithLabelValues("notifier", "ok")); got != 1 {
		t.Fatalf("notifier ok: %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SinkResult("store", nil)
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Started.Inc()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "leadbot_conversations_started_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("started counter not registered")
	}
}
