package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_requests_total",
		Help: "Total number of API requests, labelled by method and outcome class.",
	},
		[]string{"method", "outcome"},
	)

	UnauthorizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_unauthorized_total",
		Help: "Total number of 401 responses that forced a logout.",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_logins_total",
		Help: "Total number of login attempts, labelled by result.",
	},
		[]string{"result"},
	)

	TrackingRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_tracking_refreshes_total",
		Help: "Total number of order tracking refreshes, manual and polled.",
	})

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_order_cache_items",
		Help: "Current number of orders held in the client cache.",
	})

	RealtimeEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_realtime_events_total",
		Help: "Total number of order events received over the realtime connection.",
	})
)
