package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CartItemCount mirrors the cart badge: the sum of quantities across all line
// items, updated on every cart mutation.
var CartItemCount = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "chocoblitz",
	Subsystem: "cart",
	Name:      "item_count",
	Help:      "Sum of quantities across cart line items.",
})
