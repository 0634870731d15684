// Package config provides configuration loading for the postal compiler:
// YAML file, environment overrides, and defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thaigeo/postal/internal/pdfpost"
)

// Scrape-path selectors for the postal-code source.
const (
	ScrapeWiki = "wiki"
	ScrapePDF  = "pdf"
)

// Config holds all configuration for a compile run.
type Config struct {
	Sources       SourcesConfig        `yaml:"sources"`
	Cache         CacheConfig          `yaml:"cache"`
	Layout        pdfpost.LayoutConfig `yaml:"layout"`
	Reconcile     ReconcileConfig      `yaml:"reconcile"`
	Export        ExportConfig         `yaml:"export"`
	Observability ObservabilityConfig  `yaml:"observability"`
}

// SourcesConfig locates the input documents.
type SourcesConfig struct {
	Dir          string `yaml:"dir"`
	TumbonFile   string `yaml:"tumbon_file"`
	PostcodeFile string `yaml:"postcode_file"`
	ScrapePath   string `yaml:"scrape_path"` // wiki or pdf
	WikiURL      string `yaml:"wiki_url"`
	Offline      bool   `yaml:"offline"`
}

// CacheConfig controls the fetched-document disk cache.
type CacheConfig struct {
	Dir       string        `yaml:"dir"`
	Retention time.Duration `yaml:"retention"`
}

// ReconcileConfig controls the reconciliation engine.
type ReconcileConfig struct {
	// MergeDedup unions duplicate sub-district contributions per postal
	// code instead of concatenating them.
	MergeDedup bool `yaml:"merge_dedup"`
}

// ExportConfig names the output files; empty paths disable that export.
type ExportConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
	JSONPath   string `yaml:"json_path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json or console
}

// Load reads configuration from a YAML file (optional) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the defaults for a local compile run.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Dir:          "sources",
			TumbonFile:   "tumbon.xlsx",
			PostcodeFile: "postalcode.pdf",
			ScrapePath:   ScrapeWiki,
		},
		Cache: CacheConfig{
			Dir:       ".cache",
			Retention: 7 * 24 * time.Hour,
		},
		Layout: pdfpost.DefaultLayoutConfig(),
		Reconcile: ReconcileConfig{
			MergeDedup: true,
		},
		Export: ExportConfig{
			SQLitePath: "thaigeo.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTAL_SOURCES_DIR"); v != "" {
		cfg.Sources.Dir = v
	}
	if v := os.Getenv("POSTAL_WIKI_URL"); v != "" {
		cfg.Sources.WikiURL = v
	}
	if v := os.Getenv("POSTAL_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("POSTAL_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("POSTAL_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// Validate reports configuration mistakes before any work starts.
func (c *Config) Validate() error {
	if c.Sources.ScrapePath != ScrapeWiki && c.Sources.ScrapePath != ScrapePDF {
		return fmt.Errorf("sources.scrape_path must be %q or %q, got %q", ScrapeWiki, ScrapePDF, c.Sources.ScrapePath)
	}
	if c.Sources.Dir == "" {
		return fmt.Errorf("sources.dir must not be empty")
	}
	if c.Layout.Columns <= 0 {
		return fmt.Errorf("layout.columns must be positive, got %d", c.Layout.Columns)
	}
	if c.Layout.RowBucket <= 0 {
		return fmt.Errorf("layout.row_bucket must be positive, got %v", c.Layout.RowBucket)
	}
	if c.Cache.Retention < 0 {
		return fmt.Errorf("cache.retention must not be negative, got %v", c.Cache.Retention)
	}
	return nil
}
