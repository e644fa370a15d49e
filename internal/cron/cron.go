// Package cron runs the background jobs that keep derived data fresh,
// currently just the event occurrence materializer.
package cron

import (
	"context"
	"time"

	"github.com/congregateapp/congregate/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron         *cron.Cron
	eventUsecase *usecase.EventUsecase
	log          *zap.Logger
}

func NewScheduler(eventUsecase *usecase.EventUsecase, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		eventUsecase: eventUsecase,
		log:          log,
	}
}

// Start registers the jobs and kicks off an immediate materialization so
// a fresh deployment has occurrences before the first tick.
func (s *Scheduler) Start() error {
	// Nightly at 03:00, keep the rolling occurrence window filled.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.materialize()
	})
	if err != nil {
		return err
	}

	go s.materialize()

	s.cron.Start()
	s.log.Info("cron scheduler started")

	return nil
}

// Stop halts scheduling and waits for a running job to finish, bounded
// by a timeout so shutdown cannot hang on a stuck job.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		s.log.Warn("cron scheduler stop timed out")
	}

	s.log.Info("cron scheduler stopped")
}

func (s *Scheduler) materialize() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	err := s.eventUsecase.MaterializeInstances(ctx)
	if err != nil {
		s.log.Error("event materialization failed", zap.Error(err))
		return
	}

	s.log.Info("event materialization completed", zap.Duration("took", time.Since(start)))
}
