package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/infra/metrics"
	"github.com/dungpasoftware/van-edu-be/internal/usecase"
)

// ExpiryWorker drives the two reconciliation passes on a timer: hourly it
// expires overdue pending transactions and clears lapsed premium users, and
// once a day it runs both together as a combined sweep. Both passes are
// idempotent, so overlapping or late runs converge to the same state; errors
// are logged and swallowed, never fatal.
type ExpiryWorker struct {
	paymentUC     usecase.PaymentUseCase
	sweepInterval time.Duration
	dailyAt       time.Duration // offset from midnight UTC for the combined sweep
	log           *zerolog.Logger
}

func NewExpiryWorker(paymentUC usecase.PaymentUseCase, sweepInterval, dailyAt time.Duration, logger *zerolog.Logger) *ExpiryWorker {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	if dailyAt < 0 || dailyAt >= 24*time.Hour {
		dailyAt = 2 * time.Hour
	}
	wLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		paymentUC:     paymentUC,
		sweepInterval: sweepInterval,
		dailyAt:       dailyAt,
		log:           &wLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().
		Dur("interval", w.sweepInterval).
		Msg("starting expiry worker")

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	daily := time.NewTimer(untilNextDaily(time.Now(), w.dailyAt))
	defer daily.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweepTransactions(ctx)
			w.sweepPremium(ctx)
		case <-daily.C:
			w.log.Info().Msg("running daily combined sweep")
			w.sweepPremium(ctx)
			w.sweepTransactions(ctx)
			daily.Reset(untilNextDaily(time.Now(), w.dailyAt))
		}
	}
}

func (w *ExpiryWorker) sweepTransactions(ctx context.Context) {
	n, err := w.paymentUC.ExpireOldTransactions(ctx)
	metrics.IncSweepRun("transactions", err)
	if err != nil {
		w.log.Error().Err(err).Msg("transaction expiry sweep failed")
		return
	}
	if n > 0 {
		w.log.Info().Int("count", n).Msg("transaction expiry sweep finished")
	}
}

func (w *ExpiryWorker) sweepPremium(ctx context.Context) {
	n, err := w.paymentUC.ExpirePremiumUsers(ctx)
	metrics.IncSweepRun("premium", err)
	if err != nil {
		w.log.Error().Err(err).Msg("premium expiry sweep failed")
		return
	}
	if n > 0 {
		metrics.AddPremiumExpired(n)
		w.log.Info().Int("count", n).Msg("premium expiry sweep finished")
	}
}

// untilNextDaily returns the duration until the next occurrence of the given
// offset from midnight UTC.
func untilNextDaily(now time.Time, at time.Duration) time.Duration {
	day := now.UTC().Truncate(24 * time.Hour)
	next := day.Add(at)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
