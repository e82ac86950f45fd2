package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"msfs_hangar/internal/config"
	"msfs_hangar/internal/database"
	"msfs_hangar/internal/results"
	"msfs_hangar/internal/scheduler"
	"msfs_hangar/internal/tasks"
)

// KeepRuns is how many scans the history database retains
const KeepRuns = 50

// Daemon wires the scan task to the results directory, the history database
// and, in watch mode, the scheduler
type Daemon struct {
	ctx       context.Context
	cancel    context.CancelFunc
	scheduler *scheduler.Scheduler
	database  *database.DB
	scan      *tasks.ScanTask
	done      chan struct{}
}

// Options holds daemon configuration
type Options struct {
	Scope    tasks.Scope
	Interval time.Duration // 0 runs a single scan
	Fs       afero.Fs      // defaults to the OS filesystem
}

// New creates a new daemon instance. A history database that cannot be
// opened only disables history; results are still written.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	var history tasks.History
	db, err := database.New(cfg.DBPath)
	if err != nil {
		slog.Warn("Scan history disabled", "db_path", cfg.DBPath, "error", err)
		db = nil
	} else {
		history = db
	}

	scan, err := tasks.NewScanTask(cfg, opts.Fs, results.NewWriter(cfg.ResultsDir), history, opts.Scope, opts.Interval)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("failed to create scan task: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sched := scheduler.New(ctx)
	sched.AddTask(scan)

	return &Daemon{
		ctx:       ctx,
		cancel:    cancel,
		scheduler: sched,
		database:  db,
		scan:      scan,
		done:      make(chan struct{}),
	}, nil
}

// RunOnce runs a single scan on the calling goroutine
func (d *Daemon) RunOnce() error {
	return d.scan.Run(d.ctx)
}

// Start begins periodic scanning
func (d *Daemon) Start() error {
	slog.Info("Starting daemon", "interval", d.scan.Interval())

	d.scheduler.Start()

	go func() {
		<-d.ctx.Done()
		close(d.done)
	}()

	slog.Info("Daemon started successfully")
	return nil
}

// Stop gracefully stops periodic scanning
func (d *Daemon) Stop() error {
	slog.Info("Stopping daemon")
	d.cancel()
	<-d.done

	d.scheduler.Stop()

	slog.Info("Daemon stopped")
	return nil
}

// Last returns the summary of the most recent scan
func (d *Daemon) Last() tasks.Summary {
	return d.scan.Last()
}

// Close prunes old history and closes the database
func (d *Daemon) Close() error {
	d.cancel()
	if d.database == nil {
		return nil
	}

	if n, err := d.database.ScanRuns().Prune(KeepRuns); err != nil {
		slog.Error("Failed to prune scan history", "error", err)
	} else if n > 0 {
		slog.Info("Pruned scan history", "runs", n)
	}

	if err := d.database.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
