package metric

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultError   = "error"

	ReasonMissingName         = "missing_name"
	ReasonUnresolvedComponent = "unresolved_component"
)

// Metrics groups the counters of the access subsystem. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Generations        *Counter // labels: mode, result
	ConversionFailures *Counter // labels: reason
	CacheHits          *Counter // labels: none
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Generations: NewCounterWithRegistry(reg,
			"access_generations_total",
			"Access generation cycles by mode and result.",
			"mode", "result"),
		ConversionFailures: NewCounterWithRegistry(reg,
			"access_route_conversion_failures_total",
			"Non-fatal route conversion failures by reason.",
			"reason"),
		CacheHits: NewCounterWithRegistry(reg,
			"access_cache_hits_total",
			"Session access served from the state cache."),
	}
}

func (m *Metrics) Generation(mode, result string) {
	if m == nil {
		return
	}
	m.Generations.Increment(mode, result)
}

func (m *Metrics) ConversionFailure(reason string) {
	if m == nil {
		return
	}
	m.ConversionFailures.Increment(reason)
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Increment()
}
