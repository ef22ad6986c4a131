package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Warmer fetches symbols into the shared cache and reports how many succeeded.
type Warmer interface {
	Warm(ctx context.Context, symbols []string) int
}

// Alerter notifies an operator.
type Alerter interface {
	Broadcast(ctx context.Context, text string) error
}

// Scheduler runs the periodic cache warm-up.
type Scheduler struct {
	Cron    *cron.Cron
	Warmer  Warmer
	Alerter Alerter
	Symbols []string
	Ctx     context.Context
	Logger  *zap.Logger
}

// NewScheduler creates a new Scheduler. alerter may be nil.
func NewScheduler(ctx context.Context, w Warmer, symbols []string, alerter Alerter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Warmer:  w,
		Alerter: alerter,
		Symbols: symbols,
		Ctx:     ctx,
		Logger:  logger,
	}
}

// Register schedules the warm-up job.
func (s *Scheduler) Register(warmupCron string) error {
	if _, err := s.Cron.AddFunc(warmupCron, func() { s.RunWarmupNow() }); err != nil {
		return fmt.Errorf("register warm-up task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunWarmupNow executes the warm-up immediately and returns the number of
// symbols fetched.
func (s *Scheduler) RunWarmupNow() int {
	if len(s.Symbols) == 0 {
		return 0
	}
	s.Logger.Info("running cache warm-up", zap.Strings("symbols", s.Symbols))
	n := s.Warmer.Warm(s.Ctx, s.Symbols)
	s.Logger.Info("cache warm-up done", zap.Int("ok", n), zap.Int("total", len(s.Symbols)))
	if n == 0 {
		s.trySend(fmt.Sprintf("⚠️ Cache warm-up failed for all symbols: %s", strings.Join(s.Symbols, ", ")))
	}
	return n
}

func (s *Scheduler) trySend(text string) {
	if s.Alerter == nil {
		return
	}
	if err := s.Alerter.Broadcast(s.Ctx, text); err != nil {
		s.Logger.Error("send notification failed", zap.Error(err))
	}
}
