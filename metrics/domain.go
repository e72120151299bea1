package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_orders_created_total",
			Help: "Orders placed, by shop",
		},
		[]string{"shop_id"},
	)

	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_order_transitions_total",
			Help: "Order status changes by target status and actor",
		},
		[]string{"to", "actor"},
	)

	ShopTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_shop_transitions_total",
			Help: "Shop lifecycle changes by target status",
		},
		[]string{"to"},
	)

	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_auth_attempts_total",
			Help: "Login and registration attempts by outcome",
		},
		[]string{"action", "outcome"},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter",
		},
		[]string{"path"},
	)

	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "canteen_notification_failures_total",
			Help: "Notifications that could not be stored",
		},
	)
)
