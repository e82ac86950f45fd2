package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goforj/godump"

	"msfs_hangar/internal/config"
	"msfs_hangar/internal/daemon"
	"msfs_hangar/internal/logging"
	"msfs_hangar/internal/tasks"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML or paths.json)")
	verbose := flag.Bool("verbose", false, "Log every resolved package")
	only := flag.String("only", "all", "Scan only airports, aircraft or all")
	interval := flag.Duration("interval", 0, "Rescan periodically at this interval until interrupted")
	dump := flag.Bool("dump", false, "Dump the scan summary to stdout")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("MSFS_HANGAR_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	closer := logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})

	code := run(cfg, *only, *interval > 0, daemon.Options{Interval: *interval}, *dump)
	closer.Close()
	os.Exit(code)
}

func run(cfg *config.Config, only string, watch bool, opts daemon.Options, dump bool) int {
	scope, err := tasks.ParseScope(only)
	if err != nil {
		slog.Error("Invalid -only flag", "error", err)
		return 1
	}
	opts.Scope = scope

	if err := cfg.ValidateRoots(); err != nil {
		slog.Error("Invalid simulator package directory", "error", err)
		return 1
	}

	d, err := daemon.New(cfg, opts)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		return 1
	}
	defer d.Close()

	if !watch {
		if err := d.RunOnce(); err != nil {
			slog.Error("Scan failed", "error", err)
			return 1
		}
	} else {
		// Setup signal handling for graceful shutdown
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		d.Start()
		slog.Info("Watching package roots", "interval", opts.Interval.String(), "results_dir", cfg.ResultsDir)

		<-sigChan
		slog.Info("Received interrupt signal, shutting down...")
		d.Stop()
	}

	if dump {
		godump.Fdump(os.Stdout, d.Last())
	}
	slog.Info("Done", "results_dir", cfg.ResultsDir)
	return 0
}
