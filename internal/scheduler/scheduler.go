package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"clima-etl/internal/pipeline"
)

const defaultInterval = 15 * time.Minute

// Scheduler drives one pipeline run per interval. Singleton mode guarantees
// at most one run executes at a time; a tick that fires while a run is still
// in flight is skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *pipeline.Pipeline
	interval  time.Duration
	log       *logrus.Entry
}

func New(p *pipeline.Pipeline, interval time.Duration, log *logrus.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		pipeline:  p,
		interval:  interval,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic run, fires the first one immediately, and
// starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.pipeline.Execute(ctx); err != nil {
			s.log.WithError(err).Error("scheduled run failed")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
