package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/viddst/internal/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestHistoryRefresherTicks(t *testing.T) {
	target := &countingRefresher{}
	hr := NewHistoryRefresher(target, logger.NewNop(), 10*time.Millisecond, nil)

	hr.Start(context.Background())
	defer hr.Stop()

	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestHistoryRefresherManualTrigger(t *testing.T) {
	target := &countingRefresher{err: errors.New("backend down")}
	trigger := make(chan struct{}, 1)
	hr := NewHistoryRefresher(target, logger.NewNop(), 0, trigger)

	hr.Start(context.Background())
	defer hr.Stop()

	trigger <- struct{}{}
	assert.Eventually(t, func() bool { return target.calls.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestHistoryRefresherStopsWithContext(t *testing.T) {
	target := &countingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())
	hr := NewHistoryRefresher(target, logger.NewNop(), 5*time.Millisecond, nil)

	hr.Start(ctx)
	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := target.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, settled, target.calls.Load())
	hr.Stop()
}
