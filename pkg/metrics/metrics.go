package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "securestore"

// Operation results used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the Prometheus collectors shared by the stores.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations    *prometheus.CounterVec
	purged        *prometheus.CounterVec
	asyncFailures prometheus.Counter
	probes        *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// Collectors already registered by another instance are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, ErrNilRegisterer
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by store, operation and result.",
		}, []string{"store", "op", "result"}),
		purged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purged_records_total",
			Help:      "Records deleted because they could not be decrypted or decoded.",
		}, []string{"store"}),
		asyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "async_write_failures_total",
			Help:      "Background writes that failed and were dropped.",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_probes_total",
			Help:      "Secure key-value provider probes by result.",
		}, []string{"result"}),
	}

	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.purged, err = register(reg, m.purged); err != nil {
		return nil, err
	}
	if m.asyncFailures, err = register(reg, m.asyncFailures); err != nil {
		return nil, err
	}
	if m.probes, err = register(reg, m.probes); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, errors.Join(ErrRegistrationFailed, err)
	}
	return c, nil
}

// Operation counts one store operation. A nil err is recorded as ok.
func (m *Metrics) Operation(store, op string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(store, op, result).Inc()
}

// Purged counts a record removed by the corruption policy.
func (m *Metrics) Purged(store string) {
	if m == nil {
		return
	}
	m.purged.WithLabelValues(store).Inc()
}

// AsyncWriteFailed counts a dropped background write.
func (m *Metrics) AsyncWriteFailed() {
	if m == nil {
		return
	}
	m.asyncFailures.Inc()
}

// ProviderProbe records the outcome of a secure provider probe.
func (m *Metrics) ProviderProbe(result string) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(result).Inc()
}
