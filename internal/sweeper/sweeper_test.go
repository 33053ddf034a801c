package sweeper

import (
	"context"
	"errors"
	"lottery_backend/internal/model"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLotteryService - считает вызовы Sweep
type fakeLotteryService struct {
	sweeps   atomic.Int64
	sweepErr error
	panics   bool
}

func (f *fakeLotteryService) Status(_ context.Context, _ string) (*model.LotteryStatus, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLotteryService) Buy(_ context.Context, _ model.TicketPurchase) (*model.PurchaseResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLotteryService) History(_ context.Context, _ string, _ int) ([]model.RoundOutcome, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLotteryService) Finalize(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeLotteryService) Sweep(_ context.Context, _ string, _ int) (int, error) {
	f.sweeps.Add(1)
	if f.panics {
		panic("boom")
	}
	return 0, f.sweepErr
}

func (f *fakeLotteryService) TrackIDs() []string {
	return []string{"hourly", "quick"}
}

type fixedSweeperCfg struct {
	interval time.Duration
	lookback int
}

func (c fixedSweeperCfg) Interval() time.Duration { return c.interval }
func (c fixedSweeperCfg) LookbackLimit() int      { return c.lookback }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSweeperRunsPeriodically(t *testing.T) {
	serv := &fakeLotteryService{}
	s := New(serv, fixedSweeperCfg{interval: 10 * time.Millisecond, lookback: 10})

	s.Start(context.Background())
	defer s.Stop()

	// Каждая итерация обходит оба трека
	waitFor(t, func() bool { return serv.sweeps.Load() >= 4 })
}

func TestSweeperStop(t *testing.T) {
	serv := &fakeLotteryService{}
	s := New(serv, fixedSweeperCfg{interval: 10 * time.Millisecond, lookback: 10})

	s.Start(context.Background())
	waitFor(t, func() bool { return serv.sweeps.Load() >= 2 })
	s.Stop()

	// После Stop новые итерации не запускаются
	count := serv.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, count, serv.sweeps.Load())

	// Повторный Stop безопасен
	s.Stop()
}

func TestSweeperSurvivesErrorsAndPanics(t *testing.T) {
	serv := &fakeLotteryService{sweepErr: errors.New("db down")}
	s := New(serv, fixedSweeperCfg{interval: 10 * time.Millisecond, lookback: 10})

	s.Start(context.Background())
	defer s.Stop()

	// Ошибки не останавливают цикл
	waitFor(t, func() bool { return serv.sweeps.Load() >= 4 })

	serv.panics = true
	before := serv.sweeps.Load()
	// Паника в итерации тоже не убивает цикл
	waitFor(t, func() bool { return serv.sweeps.Load() >= before+2 })
}

func TestSweeperStopsWithContext(t *testing.T) {
	serv := &fakeLotteryService{}
	s := New(serv, fixedSweeperCfg{interval: 10 * time.Millisecond, lookback: 10})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	waitFor(t, func() bool { return serv.sweeps.Load() >= 2 })

	cancel()
	// Цикл завершается по отмене контекста
	time.Sleep(30 * time.Millisecond)
	count := serv.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, count, serv.sweeps.Load())
}
