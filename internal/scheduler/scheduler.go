package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/boardwatch/internal/poller"
)

// Runner performs one complete run.
type Runner interface {
	Poll(ctx context.Context) (poller.Report, error)
}

// Scheduler owns the watch loop: one immediate run, then one run per tick of
// a cron schedule. Runs never overlap; a tick that fires while a run is in
// progress is skipped.
type Scheduler struct {
	runner   Runner
	spec     string
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewScheduler parses spec as a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 30m".
func NewScheduler(runner Runner, spec string, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		runner:   runner,
		spec:     spec,
		schedule: schedule,
		logger:   logger,
	}, nil
}

// Run starts the loop. It returns nil when ctx is cancelled (graceful
// shutdown), after any run in progress has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "schedule", s.spec)

	s.runOnce(ctx)
	if ctx.Err() != nil {
		s.logger.Info("shutting down scheduler")
		return nil
	}

	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.runOnce(ctx) }))
	c.Start()
	s.logger.Info("next run scheduled", "at", s.schedule.Next(time.Now()))

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rep, err := s.runner.Poll(ctx)
	if err != nil {
		s.logger.Error("run failed", "error", err)
		return
	}
	s.logger.Info("run complete", "status", rep.Status())
}

// cronLogger routes cron's own messages through slog. Info messages are
// scheduling chatter and go to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
