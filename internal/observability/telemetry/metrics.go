package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	VouchersGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wifight_vouchers_generated_total",
		Help: "Total number of voucher codes generated",
	})

	VoucherRedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifight_voucher_redemptions_total",
		Help: "Total number of voucher redemption attempts",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wifight_active_sessions",
		Help: "Number of currently active guest sessions",
	})

	PortalAuthenticationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifight_portal_authentications_total",
		Help: "Total number of portal authentications",
	}, []string{"method", "status"})

	// Infrastructure metrics
	ControllerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifight_controller_requests_total",
		Help: "Total number of requests sent to the wireless controller",
	}, []string{"operation", "status"})

	ControllerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wifight_controller_latency_seconds",
		Help:    "Latency of wireless controller API calls",
		Buckets: prometheus.DefBuckets,
	})
)
