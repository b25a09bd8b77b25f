package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	JobSessionEviction = "session-idle-eviction"
	JobLimiterPrune    = "login-limiter-prune"
)

// IdleEvicter drops sessions that have been idle too long
type IdleEvicter interface {
	EvictIdle(ctx context.Context) int
}

// Pruner drops expired rate limit windows
type Pruner interface {
	Prune() int
}

// JobScheduler runs the housekeeping of the in-memory session backend.
// Redis expires keys itself, so nothing is registered for it.
type JobScheduler struct {
	scheduler gocron.Scheduler
	sessions  IdleEvicter
	limiter   Pruner
	logger    logrus.FieldLogger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler. sessions and limiter may be
// nil; their job is then not registered.
func NewJobScheduler(interval time.Duration, sessions IdleEvicter, limiter Pruner, logger logrus.FieldLogger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sessions:  sessions,
		limiter:   limiter,
		logger:    logger.WithField("component", "scheduler"),
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(interval); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.WithField("jobs", js.JobNames()).Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(interval time.Duration) error {
	if js.sessions != nil {
		if err := js.register(JobSessionEviction, interval, js.evictIdleSessions); err != nil {
			return err
		}
	}
	if js.limiter != nil {
		if err := js.register(JobLimiterPrune, interval, js.pruneLimiter); err != nil {
			return err
		}
	}
	return nil
}

func (js *JobScheduler) register(name string, interval time.Duration, task func()) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// evictIdleSessions removes sessions nobody has used within the idle TTL
func (js *JobScheduler) evictIdleSessions() {
	if n := js.sessions.EvictIdle(context.Background()); n > 0 {
		js.logger.WithField("evicted", n).Info("evicted idle sessions")
	}
}

func (js *JobScheduler) pruneLimiter() {
	if n := js.limiter.Prune(); n > 0 {
		js.logger.WithField("pruned", n).Debug("pruned login rate limit windows")
	}
}

// RunNow triggers a registered job outside its schedule
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	return job.RunNow()
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
