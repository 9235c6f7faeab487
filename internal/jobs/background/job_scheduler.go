package background

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Task is the body of a periodic job.
type Task func(ctx context.Context) error

// JobScheduler runs the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates an empty scheduler. Nothing runs until Start is
// called.
func NewJobScheduler() (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &JobScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// Every registers task to run once at start and then every interval. A run
// still in progress when the next one is due causes that one to be skipped.
func (js *JobScheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %q: interval must be positive, got %v", name, interval)
	}

	js.mu.Lock()
	defer js.mu.Unlock()
	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(runLogged, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %q: %w", name, err)
	}
	js.jobs[name] = job
	log.Printf("Registered background job %s every %v", name, interval)
	return nil
}

func runLogged(name string, task Task) {
	start := time.Now()
	if err := task(context.Background()); err != nil {
		log.Printf("Job %s failed: %v", name, err)
		return
	}
	log.Printf("Job %s completed in %v", name, time.Since(start))
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler with %d jobs", len(js.JobNames()))
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
