package sweeper

import (
	"context"
	"log"
	"lottery_backend/internal/config"
	"lottery_backend/internal/service"
	"sync"
	"time"
)

// Sweeper - фоновый цикл финализации. Единственный путь розыгрыша,
// который гарантированно работает без пользовательского трафика
type Sweeper struct {
	mu sync.Mutex

	serv     service.LotteryService
	interval time.Duration
	lookback int

	running bool
	done    chan struct{}
	stopped chan struct{}
}

func New(serv service.LotteryService, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		serv:     serv,
		interval: cfg.Interval(),
		lookback: cfg.LookbackLimit(),
	}
}

// Start - запускает цикл. Повторный запуск без Stop - no-op
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go s.loop(ctx, s.done, s.stopped)
}

// Stop - останавливает цикл и дожидается завершения текущей итерации
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
}

func (s *Sweeper) loop(ctx context.Context, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAll(ctx)
		}
	}
}

// sweepAll - одна итерация: sweep по каждому треку.
// Паника или ошибка одного трека не останавливает цикл:
// остановка означала бы конец всех будущих розыгрышей
func (s *Sweeper) sweepAll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[sweeper] recovered from panic: %v", r)
		}
	}()

	for _, trackID := range s.serv.TrackIDs() {
		count, err := s.serv.Sweep(ctx, trackID, s.lookback)
		if err != nil {
			log.Printf("[sweeper] sweep track %s: %v", trackID, err)
			continue
		}
		if count > 0 {
			log.Printf("[sweeper] track %s: finalized %d round(s)", trackID, count)
		}
	}
}
