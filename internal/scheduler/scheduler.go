package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Task is a job the scheduler repeats
type Task interface {
	Run(ctx context.Context) error
	Interval() time.Duration
	Name() string
}

// Scheduler repeats tasks until stopped. Each task runs once at start, then
// again Interval after the previous run finished, so runs of one task never overlap.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	tasks  []Task
	wg     sync.WaitGroup
}

// New creates a new task scheduler
func New(ctx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		tasks:  make([]Task, 0),
	}
}

// AddTask adds a task to the scheduler
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting task scheduler")
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
	slog.Info("Task scheduler started", "task_count", len(s.tasks))
}

// Stop cancels running tasks and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("Stopping task scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("Task scheduler stopped")
}

func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			start := time.Now()
			err := task.Run(s.ctx)
			switch {
			case errors.Is(err, context.Canceled):
				return
			case err != nil:
				slog.Error("Error running task", "task", task.Name(), "error", err)
			default:
				slog.Debug("Task finished", "task", task.Name(), "duration", time.Since(start))
			}
			timer.Reset(task.Interval())
		}
	}
}
