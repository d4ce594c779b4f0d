package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sweepRunsTotal) }

var sweepRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sweep_runs_total",
		Help: "Sweeper pass invocations, labeled by pass and outcome.",
	},
	[]string{"pass", "outcome"}, // pass: 'transactions'|'premium', outcome: 'ok'|'error'
)

func IncSweepRun(pass string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	sweepRunsTotal.WithLabelValues(norm(pass), outcome).Inc()
}
