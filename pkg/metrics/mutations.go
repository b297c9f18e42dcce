package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MutationMetrics records counters for inventory store mutations.
type MutationMetrics struct {
	productions  prometheus.Counter
	triggers     *prometheus.CounterVec
	imports      prometheus.Counter
	componentOps *prometheus.CounterVec
}

// NewMutationMetrics registers the mutation metrics on the provided registerer.
func NewMutationMetrics(reg prometheus.Registerer) *MutationMetrics {
	if reg == nil {
		return &MutationMetrics{}
	}
	productions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "production_entries_total",
		Help: "Production runs recorded.",
	})
	triggers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_trigger_events_total",
		Help: "Procurement trigger lifecycle events emitted by the ledger.",
	}, []string{"event"})
	imports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_imports_total",
		Help: "Bulk dataset replacements applied.",
	})
	componentOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "component_writes_total",
		Help: "Component create/update operations.",
	}, []string{"op"})
	reg.MustRegister(productions, triggers, imports, componentOps)
	return &MutationMetrics{
		productions:  productions,
		triggers:     triggers,
		imports:      imports,
		componentOps: componentOps,
	}
}

// IncProduction increments the production run counter.
func (m *MutationMetrics) IncProduction() {
	if m == nil || m.productions == nil {
		return
	}
	m.productions.Inc()
}

// IncTriggerEvent increments the ledger event counter for the given event kind.
func (m *MutationMetrics) IncTriggerEvent(event string) {
	if m == nil || m.triggers == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	m.triggers.WithLabelValues(event).Inc()
}

// IncImport increments the bulk import counter.
func (m *MutationMetrics) IncImport() {
	if m == nil || m.imports == nil {
		return
	}
	m.imports.Inc()
}

// IncComponentWrite increments the component write counter for the given op.
func (m *MutationMetrics) IncComponentWrite(op string) {
	if m == nil || m.componentOps == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.componentOps.WithLabelValues(op).Inc()
}
