package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced           prometheus.Counter
	OrdersRejectedStock    prometheus.Counter
	OrdersRejectedConflict prometheus.Counter
	PlacementSeconds       prometheus.Histogram
	ActivityPublished      prometheus.Counter
	ActivityPublishFailed  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_placed_total"})
	rejectedStock := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_rejected_insufficient_stock_total"})
	rejectedConflict := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_rejected_conflict_total"})
	placementSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_seconds",
		Buckets: prometheus.DefBuckets,
	})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "activity_published_total"})
	publishFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "activity_publish_failed_total"})

	r.MustRegister(placed, rejectedStock, rejectedConflict, placementSeconds, published, publishFailed)
	return &Registry{
		reg:                    r,
		OrdersPlaced:           placed,
		OrdersRejectedStock:    rejectedStock,
		OrdersRejectedConflict: rejectedConflict,
		PlacementSeconds:       placementSeconds,
		ActivityPublished:      published,
		ActivityPublishFailed:  publishFailed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
