// Package metrics provides Prometheus instrumentation for shopkeeper.
//
// Counters are registered against Registry at init. The CLI reads them back
// through Snapshot for its "stats" command.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "shopkeeper"

var (
	// StorageFailures counts storage errors swallowed by the persistence
	// facade, by backend ("primary" | "fallback") and operation.
	StorageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "failures_total",
			Help:      "Storage failures logged and swallowed by the facade.",
		},
		[]string{"backend", "op"},
	)

	// SignInAttempts counts sign-in outcomes.
	SignInAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "sign_in_attempts_total",
			Help:      "Sign-in attempts by result.",
		},
		[]string{"result"}, // "success" | "invalid" | "rate_limited"
	)

	// OrdersPlaced counts orders created through checkout.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders placed.",
	})
)

// Sign-in results.
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultRateLimited = "rate_limited"
)

// Storage backends.
const (
	BackendPrimary  = "primary"
	BackendFallback = "fallback"
)

// Registry holds every shopkeeper collector plus Go runtime metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(StorageFailures, SignInAttempts, OrdersPlaced)
}

// Sample is one counter value read back from Registry.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot returns the current value of every shopkeeper counter, sorted by
// name and labels.
func Snapshot() ([]Sample, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
