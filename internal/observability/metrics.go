package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the study engine counters, served on the same /metrics endpoint as the HTTP metrics
type Metrics struct {
	PartsMaterialized  prometheus.Counter
	PresetApplications *prometheus.CounterVec
	StatusToggles      *prometheus.CounterVec
	AssistantActions   *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when reg is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PartsMaterialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "parts_materialized_total",
			Help:      "Parts created from preset templates.",
		}),
		PresetApplications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "preset_applications_total",
			Help:      "Preset applications by mode.",
		}, []string{"mode"}),
		StatusToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "part_status_toggles_total",
			Help:      "Part status transitions by resulting status.",
		}, []string{"status"}),
		AssistantActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "assistant_actions_total",
			Help:      "Assistant actions by action and outcome.",
		}, []string{"action", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "overview_cache_lookups_total",
			Help:      "Overview cache lookups by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.PartsMaterialized, m.PresetApplications, m.StatusToggles, m.AssistantActions, m.CacheLookups)
	}
	return m
}

// Mode labels for PresetApplications
const (
	ModeAutoPopulate = "auto-populate"
	ModeAncestors    = "ancestor-closure"
	ModeAllParts     = "all-parts"
	ModeSubtree      = "subtree"
)
