package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/urbo/internal/planning"
)

// Aggregator is the part of planning.Service the warm-up job drives.
type Aggregator interface {
	Aggregate(ctx context.Context, req planning.AggregateRequest) (planning.AggregateResult, error)
}

// Scheduler periodically aggregates configured addresses so later requests
// are served from stored records.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Aggregator
	addresses []string
	keywords  []string
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(addresses, keywords []string, interval time.Duration, service Aggregator) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		addresses: addresses,
		keywords:  keywords,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    slog.Default().With(slog.String("component", "scheduler")),
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// The first run starts immediately.
func (s *Scheduler) Start() error {
	if len(s.addresses) == 0 {
		s.logger.Info("no warm-up addresses configured; nothing to schedule")
		return nil
	}

	if s.interval < time.Minute {
		return fmt.Errorf("warm-up interval %s is below 1m", s.interval)
	}

	if _, err := s.scheduler.Every(s.interval).Do(func() { s.RunOnce() }); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("warm-up scheduled", slog.Int("addresses", len(s.addresses)), slog.Duration("every", s.interval))
	return nil
}

// RunOnce aggregates every address concurrently and returns how many failed.
func (s *Scheduler) RunOnce() int {
	s.logger.Info("running warm-up job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, addr := range s.addresses {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			_, err := s.service.Aggregate(ctx, planning.AggregateRequest{
				Address:  addr,
				Keywords: s.keywords,
			})
			if err != nil {
				s.logger.Warn("warm-up failed", slog.String("address", addr), slog.Any("error", err))
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(addr)
	}
	wg.Wait()

	s.logger.Info("completed warm-up job", slog.Int("failed", failed))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
