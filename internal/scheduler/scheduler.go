package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Loader reloads the dataset. dataset.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context) error
}

// Scheduler re-reads the data source on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Loader Loader
	Ctx    context.Context
	log    logrus.FieldLogger
}

// NewScheduler creates a new Scheduler. Specs use the six-field form with
// seconds.
func NewScheduler(ctx context.Context, loader Loader, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Loader: loader,
		Ctx:    ctx,
		log:    log.WithField("component", "scheduler"),
	}
}

// Register adds the periodic reload. An empty spec disables it.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		s.log.Info("periodic reload disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.reloadTask); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	s.log.WithField("cron", spec).Info("periodic reload registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes one reload immediately and blocks until it is done.
func (s *Scheduler) RunNow() error {
	return s.Loader.Load(s.Ctx)
}

// Trigger starts a reload in the background.
func (s *Scheduler) Trigger() {
	go s.reloadTask()
}

func (s *Scheduler) reloadTask() {
	s.log.Info("running reload task")
	// the loader logs and records its own failures
	_ = s.RunNow()
}
