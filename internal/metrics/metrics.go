package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/specialistvlad/spigot/internal/network"
)

const (
	namespace = "spigot"
	subsystem = "network"
)

// Result label values.
const (
	resultOK    = "ok"
	resultError = "error"
	resultStale = "stale"
)

// Collector records network events. The zero value is not usable; use New.
type Collector struct {
	commands  *prometheus.CounterVec
	peeks     prometheus.Counter
	requested prometheus.Counter
	produced  prometheus.Counter
	effort    prometheus.Histogram
	finalizes *prometheus.CounterVec
}

var _ network.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		// Labels: command (add-bucket, fill-bucket, ...), result (ok, error)
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_total",
			Help:      "Structural commands applied to the network, by command and result",
		}, []string{"command", "result"}),
		peeks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "peeks_total",
			Help:      "Peeks performed",
		}),
		requested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "peek_requested_items_total",
			Help:      "Items requested across all peeks",
		}),
		produced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "peek_produced_items_total",
			Help:      "Items produced across all peeks",
		}),
		effort: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "peek_effort",
			Help:      "Node and item lookups performed per peek",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		// Labels: result (ok, stale)
		finalizes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "finalizes_total",
			Help:      "Peek finalize attempts, by result",
		}, []string{"result"}),
	}
}

// CommandApplied implements network.Observer.
func (c *Collector) CommandApplied(kind network.CommandKind, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	c.commands.WithLabelValues(kind.String(), result).Inc()
}

// Peeked implements network.Observer.
func (c *Collector) Peeked(requested, produced int, effort uint64) {
	c.peeks.Inc()
	c.requested.Add(float64(requested))
	c.produced.Add(float64(produced))
	c.effort.Observe(float64(effort))
}

// Finalized implements network.Observer.
func (c *Collector) Finalized(err error) {
	result := resultOK
	if err != nil {
		result = resultStale
	}
	c.finalizes.WithLabelValues(result).Inc()
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
