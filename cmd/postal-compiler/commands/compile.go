package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thaigeo/postal/cmd/postal-compiler/ui"
	"github.com/thaigeo/postal/internal/config"
	"github.com/thaigeo/postal/internal/observability"
	"github.com/thaigeo/postal/internal/pipeline"
)

var (
	compileSourcesDir string
	compileScrapePath string
	compileOut        string
	compileJSON       string
	compileCacheDir   string
	compileOffline    bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Run the full compile and export the bound hierarchy",
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileSourcesDir, "sources", "", "directory holding tumbon.xlsx and postalcode.pdf")
	compileCmd.Flags().StringVar(&compileScrapePath, "source", "", "postal-code source: wiki or pdf")
	compileCmd.Flags().StringVar(&compileOut, "out", "", "SQLite output path (empty disables)")
	compileCmd.Flags().StringVar(&compileJSON, "json", "", "JSON output path (empty disables)")
	compileCmd.Flags().StringVar(&compileCacheDir, "cache-dir", "", "fetched-document cache directory")
	compileCmd.Flags().BoolVar(&compileOffline, "offline", false, "never fetch; fail on cache miss")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCompileFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logCfg := observability.LogConfig{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger := observability.NewLogger(logCfg)

	ui.Section("Compiling Thai postal-code hierarchy")

	var bar *ui.ProgressBar
	hooks := pipeline.Hooks{
		PDFPage: func(page, total int) {
			if bar == nil {
				bar = ui.NewProgressBar(int64(total), "extracting pages")
			}
			bar.Set(int64(page))
			if page == total {
				bar.Finish()
			}
		},
	}

	var sp *ui.Spinner
	if cfg.Sources.ScrapePath == config.ScrapeWiki {
		sp = ui.NewSpinner("fetching and reconciling postal codes")
	}

	_, result, err := pipeline.New(cfg, logger).Run(ctx, hooks)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		ui.Errorf("compile failed: %v", err)
		return err
	}

	ui.Successf("%d provinces, %d districts, %d sub-districts",
		result.Provinces, result.Districts, result.SubDistricts)
	ui.Successf("%d postal codes bound from %d scraped tuples (%.1fs)",
		result.ZipCodes, result.Tuples, result.Duration.Seconds())

	diags := result.Diagnostics
	if diags.Clean() {
		ui.Successf("no reconciliation diagnostics")
		return nil
	}
	if n := diags.DuplicateKeys.Count; n > 0 {
		ui.Warnf("%d duplicate sub-district keys (e.g. %v)", n, diags.DuplicateKeys.Samples)
	}
	if n := diags.UnmatchedTuples.Count; n > 0 {
		ui.Warnf("%d scraped tuples matched no district (e.g. %v)", n, diags.UnmatchedTuples.Samples)
	}
	if n := diags.UnmatchedExceptionName.Count; n > 0 {
		ui.Warnf("%d exception names not found (e.g. %v)", n, diags.UnmatchedExceptionName.Samples)
	}
	return nil
}

func applyCompileFlags(cfg *config.Config) {
	if compileSourcesDir != "" {
		cfg.Sources.Dir = compileSourcesDir
	}
	if compileScrapePath != "" {
		cfg.Sources.ScrapePath = compileScrapePath
	}
	if compileOut != "" {
		cfg.Export.SQLitePath = compileOut
	}
	if compileJSON != "" {
		cfg.Export.JSONPath = compileJSON
	}
	if compileCacheDir != "" {
		cfg.Cache.Dir = compileCacheDir
	}
	if compileOffline {
		cfg.Sources.Offline = true
	}
}
