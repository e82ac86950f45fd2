package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"msfs_hangar/internal/models"
)

// ErrNoRoots is returned when none of the simulator package roots is configured
var ErrNoRoots = errors.New("no simulator package directory configured")

// Config holds all configuration for the scanners
type Config struct {
	CommunityDir        string
	OfficialOneStoreDir string
	StreamedPackagesDir string
	ResultsDir          string
	DBPath              string
	Data                DataConfig
	Scan                ScanConfig
	Log                 LogConfig
	SimBrief            SimBriefConfig
	Aviationstack       AviationstackConfig
}

// DataConfig holds the reference data locations
type DataConfig struct {
	AirportsCSV   string
	CallsignsCSV  string
	CustomMapping string
}

// ScanConfig holds scan tuning
type ScanConfig struct {
	BGLMaxDepth  int
	BGLCacheSize int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// SimBriefConfig holds SimBrief dispatch settings
type SimBriefConfig struct {
	UserID string
	Units  string
}

// AviationstackConfig holds the airline API settings
type AviationstackConfig struct {
	APIKey  string
	BaseURL string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("community_dir", "")
	v.SetDefault("official_onestore_dir", "")
	v.SetDefault("streamedpackages_dir", "")
	v.SetDefault("results_dir", "results")
	v.SetDefault("db_path", "results/hangar.db")
	v.SetDefault("data.airports_csv", "data/airports.csv")
	v.SetDefault("data.callsigns_csv", "data/airline_callsigns.csv")
	v.SetDefault("data.custom_mapping", "data/custom_mapping.json")
	v.SetDefault("scan.bgl_max_depth", 3)
	v.SetDefault("scan.bgl_cache_size", 4096)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("simbrief.user_id", "")
	v.SetDefault("simbrief.units", "KGS")
	v.SetDefault("aviationstack.api_key", "")
	v.SetDefault("aviationstack.base_url", "http://api.aviationstack.com/v1")

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// paths.json written by the desktop app is also accepted here
	if configPath := os.Getenv("MSFS_HANGAR_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MSFS_HANGAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		CommunityDir:        v.GetString("community_dir"),
		OfficialOneStoreDir: v.GetString("official_onestore_dir"),
		StreamedPackagesDir: v.GetString("streamedpackages_dir"),
		ResultsDir:          v.GetString("results_dir"),
		DBPath:              v.GetString("db_path"),
		Data: DataConfig{
			AirportsCSV:   v.GetString("data.airports_csv"),
			CallsignsCSV:  v.GetString("data.callsigns_csv"),
			CustomMapping: v.GetString("data.custom_mapping"),
		},
		Scan: ScanConfig{
			BGLMaxDepth:  v.GetInt("scan.bgl_max_depth"),
			BGLCacheSize: v.GetInt("scan.bgl_cache_size"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
			File:   v.GetString("log.file"),
		},
		SimBrief: SimBriefConfig{
			UserID: v.GetString("simbrief.user_id"),
			Units:  v.GetString("simbrief.units"),
		},
		Aviationstack: AviationstackConfig{
			APIKey:  v.GetString("aviationstack.api_key"),
			BaseURL: v.GetString("aviationstack.base_url"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}

	if cfg.Scan.BGLMaxDepth < 0 {
		return fmt.Errorf("scan.bgl_max_depth must not be negative")
	}

	if cfg.Scan.BGLCacheSize <= 0 {
		return fmt.Errorf("scan.bgl_cache_size must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[cfg.Log.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	validUnits := map[string]bool{
		"KGS": true,
		"LBS": true,
	}
	if !validUnits[strings.ToUpper(cfg.SimBrief.Units)] {
		return fmt.Errorf("invalid simbrief units: %s (must be KGS or LBS)", cfg.SimBrief.Units)
	}

	return nil
}

// Roots returns the configured package roots keyed by source, skipping empty entries
func (c *Config) Roots() map[models.Source]string {
	roots := make(map[models.Source]string)
	for src, dir := range map[models.Source]string{
		models.SourceCommunity: c.CommunityDir,
		models.SourceOfficial:  c.OfficialOneStoreDir,
		models.SourceStreamed:  c.StreamedPackagesDir,
	} {
		if dir != "" {
			roots[src] = dir
		}
	}
	return roots
}

// ValidateRoots checks that at least one root is configured and every configured
// root is an existing directory
func (c *Config) ValidateRoots() error {
	roots := c.Roots()
	if len(roots) == 0 {
		return ErrNoRoots
	}

	for _, src := range models.Sources {
		dir, ok := roots[src]
		if !ok {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%s directory %s: %w", src, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s directory %s is not a directory", src, dir)
		}
	}

	return nil
}
