package service

import (
	"context"
	"log/slog"
	"time"
)

// OverdueSweeper calls LoanService.SweepOverdue on a fixed interval.
type OverdueSweeper struct {
	loans    LoanService
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewOverdueSweeper(loans LoanService, interval, timeout time.Duration, logger *slog.Logger) *OverdueSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueSweeper{loans: loans, interval: interval, timeout: timeout, logger: logger}
}

// Run sweeps once immediately, then every interval until ctx is cancelled.
func (w *OverdueSweeper) Run(ctx context.Context) {
	w.logger.Info("overdue sweeper started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweep(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("overdue sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *OverdueSweeper) sweep(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ids, err := w.loans.SweepOverdue(sctx)
	if err != nil {
		w.logger.Error("overdue sweep failed", "error", err)
		return
	}
	w.logger.Debug("overdue sweep finished", "marked", len(ids))
}
