// Command fetch-airlines downloads the Aviationstack airline list into the
// callsign reference CSV used by the aircraft scanner
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"msfs_hangar/internal/aviationstack"
	"msfs_hangar/internal/config"
	"msfs_hangar/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML or paths.json)")
	out := flag.String("out", "", "Output CSV (default data.callsigns_csv)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("MSFS_HANGAR_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	closer := logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, *out)
	stop()
	closer.Close()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, out string) int {
	if cfg.Aviationstack.APIKey == "" {
		slog.Error("aviationstack.api_key is not configured")
		return 1
	}

	path := out
	if path == "" {
		path = cfg.Data.CallsignsCSV
	}

	client := aviationstack.NewClient(cfg.Aviationstack.BaseURL, cfg.Aviationstack.APIKey, nil)
	airlines, err := client.FetchAirlines(ctx)
	if err != nil {
		if len(airlines) == 0 {
			slog.Error("Failed to fetch airlines", "error", err)
			return 1
		}
		slog.Warn("Airline fetch stopped early, writing partial list", "airlines", len(airlines), "error", err)
	}

	if err := aviationstack.ExportCSV(path, airlines); err != nil {
		slog.Error("Failed to write airlines CSV", "path", path, "error", err)
		return 1
	}
	slog.Info("Airlines written", "path", path, "airlines", len(airlines))
	return 0
}
