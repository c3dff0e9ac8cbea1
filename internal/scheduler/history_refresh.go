package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/viddst/internal/logger"
)

// Refresher is the part of the history store the refresher drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// HistoryRefresher periodically re-reads the history backend so that
// several instances sharing one backend converge.
type HistoryRefresher struct {
	target        Refresher
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewHistoryRefresher creates a refresher. manualTrigger may be nil.
func NewHistoryRefresher(
	target Refresher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HistoryRefresher {
	return &HistoryRefresher{
		target:        target,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start launches the refresh loop. A non-positive interval disables the
// ticker but manual triggers are still honoured.
func (hr *HistoryRefresher) Start(ctx context.Context) {
	go func() {
		var tick <-chan time.Time
		if hr.interval > 0 {
			ticker := time.NewTicker(hr.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				hr.run(ctx)
			case <-hr.manualTrigger:
				hr.logger.Info("manual history refresh triggered")
				hr.run(ctx)
			case <-hr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop. It must be called at most once.
func (hr *HistoryRefresher) Stop() {
	close(hr.stopCh)
}

func (hr *HistoryRefresher) run(ctx context.Context) {
	start := time.Now()
	if err := hr.target.Refresh(ctx); err != nil {
		hr.logger.Warn("history refresh failed", logger.Error(err))
		return
	}
	hr.logger.Debug("history refreshed", logger.Duration("took", time.Since(start)))
}
