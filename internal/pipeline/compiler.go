// Package pipeline runs the full compile: hierarchy import, graph binding,
// postal-code scraping, reconciliation, and export. Every stage completes
// before the next starts; the only suspension points are file reads, the
// optional network fetch, and the export write.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/thaigeo/postal/internal/config"
	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
	"github.com/thaigeo/postal/internal/pdfpost"
	"github.com/thaigeo/postal/internal/reconcile"
	"github.com/thaigeo/postal/internal/storage"
	"github.com/thaigeo/postal/internal/tumbon"
	"github.com/thaigeo/postal/internal/wikipost"
)

// Hooks lets the caller observe long-running stages; all fields optional.
type Hooks struct {
	PDFPage pdfpost.PageHook
}

// Result summarizes one compile run.
type Result struct {
	JobID        uuid.UUID
	Provinces    int
	Districts    int
	SubDistricts int
	ZipCodes     int
	Tuples       int
	Diagnostics  *observability.Diagnostics
	Duration     time.Duration
}

// Compiler wires the pipeline stages together.
type Compiler struct {
	cfg    *config.Config
	logger *observability.Logger
	diags  *observability.Diagnostics
}

// New creates a compiler.
func New(cfg *config.Config, logger *observability.Logger) *Compiler {
	return &Compiler{
		cfg:    cfg,
		logger: logger.WithComponent("pipeline"),
		diags:  observability.NewDiagnostics(),
	}
}

// Run executes the full compile and returns the bound graph alongside the
// run summary. Fatal conditions (missing sources, fetch or validation
// failures, export errors) abort with an error; reconciliation mismatches
// land in the result's diagnostics instead.
func (c *Compiler) Run(ctx context.Context, hooks Hooks) (*geo.Graph, *Result, error) {
	start := time.Now()
	jobID := uuid.New()
	c.logger.Info().Str("job_id", jobID.String()).Str("scrape_path", c.cfg.Sources.ScrapePath).Msg("compile started")

	graph, err := c.buildGraph()
	if err != nil {
		return nil, nil, err
	}

	tuples, err := c.scrapeTuples(ctx, graph, hooks)
	if err != nil {
		return nil, nil, err
	}

	engine := reconcile.NewEngine(
		graph,
		reconcile.DefaultGrammar(),
		reconcile.Options{MergeDedup: c.cfg.Reconcile.MergeDedup},
		c.diags,
		c.logger,
	)
	engine.Reconcile(tuples)

	if err := c.export(ctx, graph); err != nil {
		return nil, nil, err
	}

	result := &Result{
		JobID:        jobID,
		Provinces:    len(graph.Provinces),
		Districts:    len(graph.Districts),
		SubDistricts: len(graph.SubDistricts),
		ZipCodes:     len(graph.ZipCodes),
		Tuples:       len(tuples),
		Diagnostics:  c.diags,
		Duration:     time.Since(start),
	}
	c.logger.Info().
		Str("job_id", jobID.String()).
		Int("zip_codes", result.ZipCodes).
		Dur("duration", result.Duration).
		Msg("compile finished")
	return graph, result, nil
}

func (c *Compiler) buildGraph() (*geo.Graph, error) {
	path := filepath.Join(c.cfg.Sources.Dir, c.cfg.Sources.TumbonFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tumbon.ErrMissingSource, err)
	}
	defer f.Close()

	parser := tumbon.NewParser(geo.DefaultKeyScheme(), c.diags, c.logger)
	hierarchy, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	graph, err := geo.Bind(hierarchy)
	if err != nil {
		return nil, fmt.Errorf("bind hierarchy: %w", err)
	}
	return graph, nil
}

func (c *Compiler) scrapeTuples(ctx context.Context, graph *geo.Graph, hooks Hooks) ([]reconcile.Tuple, error) {
	switch c.cfg.Sources.ScrapePath {
	case config.ScrapePDF:
		return c.scrapePDF(graph, hooks)
	default:
		return c.scrapeWiki(ctx, graph)
	}
}

func (c *Compiler) scrapeWiki(ctx context.Context, graph *geo.Graph) ([]reconcile.Tuple, error) {
	cache := wikipost.NewCache(c.cfg.Cache.Dir, c.cfg.Cache.Retention)
	client := wikipost.NewClient(cache, wikipost.ClientOptions{
		URL:     c.cfg.Sources.WikiURL,
		Offline: c.cfg.Sources.Offline,
	}, c.logger)

	html, err := client.FetchHTML(ctx)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]geo.LocalizedName, len(graph.Provinces))
	for _, key := range graph.ProvinceOrder {
		p := graph.Provinces[key]
		lookup[wikipost.NormalizeProvinceName(p.Title.Th)] = p.Title
	}

	raw, err := wikipost.NewScraper(c.logger).Parse(html, lookup)
	if err != nil {
		return nil, err
	}

	tuples := make([]reconcile.Tuple, 0, len(raw))
	for _, r := range raw {
		tuples = append(tuples, reconcile.Tuple{
			ProvinceTh: r.ProvinceTh,
			ProvinceEn: r.ProvinceEn,
			District:   r.District,
			PostalCode: r.PostalCode,
			Notes:      r.Notes,
		})
	}
	return tuples, nil
}

func (c *Compiler) scrapePDF(graph *geo.Graph, hooks Hooks) ([]reconcile.Tuple, error) {
	path := filepath.Join(c.cfg.Sources.Dir, c.cfg.Sources.PostcodeFile)
	extractor := pdfpost.NewExtractor(c.cfg.Layout, c.logger)

	records, err := extractor.ExtractFile(path, hooks.PDFPage)
	if err != nil {
		return nil, err
	}

	tuples := make([]reconcile.Tuple, 0, len(records))
	for _, rec := range records {
		tuples = append(tuples, reconcile.Tuple{
			ProvinceTh: rec.Province,
			District:   rec.District,
			PostalCode: rec.PostalCode,
			Notes:      rec.ExceptionNotes,
		})
	}
	return tuples, nil
}

func (c *Compiler) export(ctx context.Context, graph *geo.Graph) error {
	if path := c.cfg.Export.SQLitePath; path != "" {
		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewExporter(c.logger).Export(ctx, db, graph); err != nil {
			return err
		}
	}

	if path := c.cfg.Export.JSONPath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create json export: %w", err)
		}
		defer f.Close()

		if err := storage.WriteJSON(f, graph); err != nil {
			return err
		}
	}

	return nil
}
