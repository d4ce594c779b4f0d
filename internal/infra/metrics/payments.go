package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		premiumExpiredTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_transactions_total",
			Help: "Payment transactions by status (pending/confirmed/expired).",
		},
		[]string{"status"},
	)

	premiumExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "premium_users_expired_total",
			Help: "Total number of users whose premium window was cleared by the sweeper.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPremiumExpired(count int) {
	premiumExpiredTotal.Add(float64(count))
}
