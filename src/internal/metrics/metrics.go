package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "customer_dashboard"

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "login_attempts_total", Help: "Login attempts by outcome (success, rejected, invalid, error)."},
		[]string{"outcome"},
	)
	SessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "sessions_expired_total", Help: "Sessions ended by the timeout guard."},
	)
	DashboardRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "dashboard_renders_total", Help: "Dashboard requests by result."},
		[]string{"result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(SessionsExpired)
	reg.MustRegister(DashboardRenders)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
