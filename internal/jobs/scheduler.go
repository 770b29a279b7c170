// Package jobs runs the server's periodic housekeeping on cron schedules.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Job is one unit of periodic work.
type Job func(context.Context) error

// Parser accepts five-field expressions, an optional seconds field and
// descriptors such as "@daily" or "@every 10m".
var Parser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	errNilJob         = errors.New("job cannot be nil")
)

// Scheduler owns a cron engine and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	log     logger.Logger
	timeout time.Duration

	mu      sync.Mutex
	started bool
	names   map[cron.EntryID]string
}

// New returns a stopped Scheduler. A positive timeout bounds every run.
func New(log logger.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(Parser)),
		log:     log,
		timeout: timeout,
		names:   make(map[cron.EntryID]string),
	}
}

// Add registers job under name on expression.
func (s *Scheduler) Add(name, expression string, job Job) error {
	if job == nil {
		return fmt.Errorf("%s: %w", name, errNilJob)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(expression, func() {
		if err := s.Run(context.Background(), name, job); err != nil {
			s.log.Error("Scheduled job failed", logger.String("job", name), logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, expression, err)
	}
	s.names[id] = name
	return nil
}

// Len reports how many jobs are registered.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

// Run executes job immediately with the scheduler's timeout.
func (s *Scheduler) Run(ctx context.Context, name string, job Job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := job(ctx)
	s.log.Debug("Job finished",
		logger.String("job", name),
		logger.Duration("duration", time.Since(start)),
		logger.Bool("ok", err == nil),
	)
	return err
}

// Start begins firing registered jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts the engine and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.started = false
	s.mu.Unlock()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running jobs: %w", ctx.Err())
	}
}
