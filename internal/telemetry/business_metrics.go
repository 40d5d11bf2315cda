package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability
// of the cart, merge, and checkout funnel.
type BusinessMetrics struct {
	// Cart. The source label distinguishes local (anonymous) from server
	// (authenticated) cart mutations.
	CartItemsAdded   *prometheus.CounterVec
	CartItemsRemoved *prometheus.CounterVec
	CartCleared      *prometheus.CounterVec

	// Wishlist
	WishlistAdds *prometheus.CounterVec

	// Merge on login
	MergeRuns        prometheus.Counter
	MergeItemsMerged prometheus.Counter
	MergeFailures    prometheus.Counter

	// Checkout funnel
	CheckoutStarted  prometheus.Counter
	CheckoutRejected *prometheus.CounterVec
	OrdersCreated    prometheus.Counter
	OrderValue       prometheus.Histogram
	OrderItemCount   prometheus.Histogram
}

// NewBusinessMetrics creates and registers the business metric collectors.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "lavka"
	}

	return &BusinessMetrics{
		CartItemsAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Cart line additions",
		}, []string{"source"}),
		CartItemsRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_removed_total",
			Help:      "Cart line removals",
		}, []string{"source"}),
		CartCleared: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_cleared_total",
			Help:      "Full cart clears",
		}, []string{"source"}),
		WishlistAdds: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wishlist_adds_total",
			Help:      "Wishlist additions",
		}, []string{"source"}),
		MergeRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_runs_total",
			Help:      "Anonymous-to-authenticated merge executions",
		}),
		MergeItemsMerged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_items_merged_total",
			Help:      "Cart and wishlist items migrated by merge",
		}),
		MergeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_failures_total",
			Help:      "Merge item migrations that failed and stayed local",
		}),
		CheckoutStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_started_total",
			Help:      "Checkout submissions received",
		}),
		CheckoutRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_rejected_total",
			Help:      "Checkout submissions rejected before order creation",
		}, []string{"reason"}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders successfully created",
		}),
		OrderValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_cents",
			Help:      "Order totals in cents",
			Buckets:   prometheus.ExponentialBuckets(10000, 2.5, 10),
		}),
		OrderItemCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_item_count",
			Help:      "Distinct lines per order",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}
