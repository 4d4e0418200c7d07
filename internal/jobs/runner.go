package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// Task is one recurring background task.
type Task interface {
	Run(ctx context.Context) error
}

// Runner schedules recurring tasks on cron expressions.
type Runner struct {
	scheduler gocron.Scheduler
}

// NewRunner creates the background task runner
func NewRunner() (*Runner, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Runner{scheduler: scheduler}, nil
}

// Register adds a task under a standard five-field cron expression. The
// expression is validated up front so a config typo fails at startup
// instead of silently never firing.
func (r *Runner) Register(name, cronExpr string, task Task) error {
	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q for task %s: %w", cronExpr, name, err)
	}

	_, err := r.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			start := time.Now()
			if err := task.Run(ctx); err != nil {
				log.Printf("❌ [JOBS] Task %s failed after %v: %v", name, time.Since(start).Round(time.Millisecond), err)
				return
			}
			log.Printf("✅ [JOBS] Task %s completed in %v", name, time.Since(start).Round(time.Millisecond))
		}),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register task %s: %w", name, err)
	}

	log.Printf("⏰ [JOBS] Registered task %s (%s)", name, cronExpr)
	return nil
}

// Start begins running registered tasks
func (r *Runner) Start() {
	r.scheduler.Start()
	log.Printf("🚀 [JOBS] Task runner started with %d task(s)", len(r.scheduler.Jobs()))
}

// Shutdown stops the runner and waits for running tasks
func (r *Runner) Shutdown() error {
	return r.scheduler.Shutdown()
}
