// Command simbrief builds a flight plan from the saved selections and opens
// it in the SimBrief dispatch form
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"msfs_hangar/internal/config"
	"msfs_hangar/internal/database"
	"msfs_hangar/internal/logging"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/results"
	"msfs_hangar/internal/scanner"
	"msfs_hangar/internal/simbrief"
)

type options struct {
	planPath       string
	selectAirports string
	selectAircraft string
	list           bool
	req            results.PlanRequest
	printOnly      bool
}

func main() {
	var opts options
	configPath := flag.String("config", "", "Path to config file (YAML or paths.json)")
	flag.StringVar(&opts.planPath, "plan", "", "Flight plan JSON to dispatch (default <results_dir>/selected_flight_plan.json)")
	flag.StringVar(&opts.selectAirports, "select-airports", "", "Comma-separated ICAO codes to save as the airport selection")
	flag.StringVar(&opts.selectAircraft, "select-aircraft", "", "Comma-separated registrations to save as the aircraft selection")
	flag.BoolVar(&opts.list, "list", false, "List the selected airports and aircraft")
	flag.StringVar(&opts.req.Departure, "dep", "", "Departure ICAO from the airport selection")
	flag.StringVar(&opts.req.Arrival, "arr", "", "Arrival ICAO from the airport selection")
	flag.StringVar(&opts.req.Registration, "reg", "", "Aircraft registration from the aircraft selection")
	flag.StringVar(&opts.req.FlightNumber, "fltnum", "", "Flight number")
	flag.BoolVar(&opts.printOnly, "print", false, "Print the dispatch URL instead of opening the browser")
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

	code := run(cfg, opts, simbrief.New(cfg.SimBrief.UserID, cfg.SimBrief.Units), os.Stdout)
	closer.Close()
	os.Exit(code)
}

func (o options) building() bool {
	return o.req.Departure != "" || o.req.Arrival != "" || o.req.Registration != ""
}

func run(cfg *config.Config, opts options, d *simbrief.Dispatcher, out io.Writer) int {
	w := results.NewWriter(cfg.ResultsDir)

	if opts.selectAirports != "" {
		selected, err := w.SelectAirports(splitList(opts.selectAirports))
		if err != nil {
			slog.Error("Failed to save airport selection", "error", err)
			return 1
		}
		slog.Info("Airport selection saved", "airports", len(selected))
	}
	if opts.selectAircraft != "" {
		selected, err := w.SelectAircraft(splitList(opts.selectAircraft))
		if err != nil {
			slog.Error("Failed to save aircraft selection", "error", err)
			return 1
		}
		slog.Info("Aircraft selection saved", "liveries", len(selected))
	}
	if opts.list {
		if err := printSelections(w, out); err != nil {
			slog.Error("Failed to list selections", "error", err)
			return 1
		}
	}

	var plan models.FlightPlan
	switch {
	case opts.building():
		var history results.AircraftLookup
		if db := openHistory(cfg.DBPath); db != nil {
			defer db.Close()
			history = db.Aircraft()
		}
		p, err := w.BuildFlightPlan(opts.req, history)
		if err != nil {
			slog.Error("Failed to build flight plan", "error", err)
			return 1
		}
		plan = p
		slog.Info("Flight plan saved", "path", w.Path(results.SelectedFlightPlan))
	case opts.selectAirports != "" || opts.selectAircraft != "" || opts.list:
		return 0
	default:
		path := opts.planPath
		if path == "" {
			path = w.Path(results.SelectedFlightPlan)
		}
		p, err := results.ReadFlightPlan(path)
		if err != nil {
			slog.Error("Failed to load flight plan", "error", err)
			return 1
		}
		plan = p
	}

	if opts.printOnly {
		u, err := d.URL(plan)
		if err != nil {
			slog.Error("Failed to build dispatch URL", "error", err)
			return 1
		}
		fmt.Fprintln(out, u)
		return 0
	}

	if u, err := d.Open(plan); err != nil {
		slog.Error("Failed to open SimBrief", "url", u, "error", err)
		return 1
	}
	return 0
}

// openHistory returns nil when the history database is unavailable
func openHistory(path string) *database.DB {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	db, err := database.New(path)
	if err != nil {
		slog.Warn("Scan history unavailable", "db_path", path, "error", err)
		return nil
	}
	return db
}

func printSelections(w *results.Writer, out io.Writer) error {
	airports, err := w.LoadAirportSelection()
	if err != nil {
		return err
	}
	aircraft, err := w.LoadAircraftSelection()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Airports:")
	for _, ap := range airports {
		fmt.Fprintf(out, "  %s\n", scanner.Label(ap.ICAO, ap.Name))
	}
	fmt.Fprintln(out, "Aircraft:")
	for _, ac := range aircraft {
		fmt.Fprintf(out, "  %s  %s %s (%s)\n", ac.Registration, ac.Company, ac.Model, ac.EngineType)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
