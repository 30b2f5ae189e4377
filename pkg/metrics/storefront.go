package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and recommendation activity.
type StorefrontMetrics struct {
	cartMutations  *prometheus.CounterVec
	mergeOutcomes  *prometheus.CounterVec
	recommendation *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and identity mode.",
	}, []string{"operation", "mode"})
	mergeOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_merges_total",
		Help: "Guest cart merge attempts by outcome.",
	}, []string{"outcome"})
	recommendation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_served_total",
		Help: "Recommendation listings served by kind.",
	}, []string{"kind"})
	reg.MustRegister(cartMutations, mergeOutcomes, recommendation)
	return &StorefrontMetrics{
		cartMutations:  cartMutations,
		mergeOutcomes:  mergeOutcomes,
		recommendation: recommendation,
	}
}

// IncCartMutation counts one cart mutation for the operation/mode pair.
func (m *StorefrontMetrics) IncCartMutation(operation, mode string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(mode)).Inc()
}

// IncMerge counts one guest cart merge attempt by outcome.
func (m *StorefrontMetrics) IncMerge(outcome string) {
	if m == nil || m.mergeOutcomes == nil {
		return
	}
	m.mergeOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRecommendation counts one served recommendation listing.
func (m *StorefrontMetrics) IncRecommendation(kind string) {
	if m == nil || m.recommendation == nil {
		return
	}
	m.recommendation.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
