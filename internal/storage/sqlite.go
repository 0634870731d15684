// Package storage serializes the compiled graph. The primary output is a
// SQLite file holding the full hierarchy and postal-code bindings; a JSON
// document export is available for consumers without SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

// Execer is the subset of *sql.Tx the exporter needs; tests substitute a
// recording fake.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS provinces (
		code    TEXT PRIMARY KEY,
		name_th TEXT NOT NULL,
		name_en TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS districts (
		code          TEXT PRIMARY KEY,
		province_code TEXT NOT NULL REFERENCES provinces(code),
		name_th       TEXT NOT NULL,
		name_en       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sub_districts (
		code          TEXT PRIMARY KEY,
		district_code TEXT NOT NULL REFERENCES districts(code),
		name_th       TEXT NOT NULL,
		name_en       TEXT NOT NULL,
		lat           REAL,
		lng           REAL
	)`,
	`CREATE TABLE IF NOT EXISTS zip_codes (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS zip_code_areas (
		zip_code          TEXT NOT NULL REFERENCES zip_codes(code),
		sub_district_code TEXT NOT NULL REFERENCES sub_districts(code),
		PRIMARY KEY (zip_code, sub_district_code)
	)`,
}

// Exporter writes a compiled graph into a database.
type Exporter struct {
	logger *observability.Logger
}

// NewExporter creates an exporter.
func NewExporter(logger *observability.Logger) *Exporter {
	return &Exporter{logger: logger.WithComponent("storage")}
}

// Export writes the whole graph inside a single transaction.
func (e *Exporter) Export(ctx context.Context, db *sql.DB, g *geo.Graph) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export transaction: %w", err)
	}

	if err := e.exportTx(ctx, tx, g); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}

	e.logger.Info().
		Int("provinces", len(g.Provinces)).
		Int("districts", len(g.Districts)).
		Int("sub_districts", len(g.SubDistricts)).
		Int("zip_codes", len(g.ZipCodes)).
		Msg("graph exported")
	return nil
}

func (e *Exporter) exportTx(ctx context.Context, tx Execer, g *geo.Graph) error {
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, key := range g.ProvinceOrder {
		p := g.Provinces[key]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO provinces (code, name_th, name_en) VALUES (?, ?, ?)`,
			p.Code, p.Title.Th, p.Title.En,
		); err != nil {
			return fmt.Errorf("insert province %s: %w", p.Code, err)
		}
	}

	for _, key := range g.DistrictOrder {
		d := g.Districts[key]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO districts (code, province_code, name_th, name_en) VALUES (?, ?, ?, ?)`,
			d.Code, d.Province.Code, d.Title.Th, d.Title.En,
		); err != nil {
			return fmt.Errorf("insert district %s: %w", d.Code, err)
		}
	}

	for _, key := range g.SubDistrictOrder {
		s := g.SubDistricts[key]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sub_districts (code, district_code, name_th, name_en, lat, lng) VALUES (?, ?, ?, ?, ?, ?)`,
			s.Code, s.District.Code, s.Title.Th, s.Title.En, s.Lat, s.Lng,
		); err != nil {
			return fmt.Errorf("insert sub-district %s: %w", s.Code, err)
		}
	}

	for _, code := range sortedZipCodes(g) {
		zip := g.ZipCodes[code]
		if _, err := tx.ExecContext(ctx, `INSERT INTO zip_codes (code) VALUES (?)`, zip.Code); err != nil {
			return fmt.Errorf("insert zip code %s: %w", zip.Code, err)
		}
		for _, sd := range zip.SubDistricts {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO zip_code_areas (zip_code, sub_district_code) VALUES (?, ?)`,
				zip.Code, sd.Code,
			); err != nil {
				return fmt.Errorf("insert zip code area %s/%s: %w", zip.Code, sd.Code, err)
			}
		}
	}

	return nil
}

func sortedZipCodes(g *geo.Graph) []string {
	codes := make([]string, 0, len(g.ZipCodes))
	for code := range g.ZipCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
