package storage

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

type executed struct {
	query string
	args  []interface{}
}

// recordingExecer captures every statement instead of hitting a database.
type recordingExecer struct {
	stmts []executed
}

type noopResult struct{}

func (noopResult) LastInsertId() (int64, error) { return 0, nil }
func (noopResult) RowsAffected() (int64, error) { return 1, nil }

func (r *recordingExecer) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.stmts = append(r.stmts, executed{query: query, args: args})
	return noopResult{}, nil
}

func exportGraph(t *testing.T) *geo.Graph {
	t.Helper()

	h := geo.NewHierarchy()
	h.AddProvince("1", &geo.Province{Title: geo.LocalizedName{Th: "ก", En: "P1"}})
	h.AddDistrict("1-1", &geo.District{Title: geo.LocalizedName{Th: "D1", En: "D1"}})
	h.AddSubDistrict("1-1-1", &geo.SubDistrict{Title: geo.LocalizedName{Th: "S1", En: "S1"}, Lat: 13.7, Lng: 100.5})
	h.AddSubDistrict("1-1-2", &geo.SubDistrict{Title: geo.LocalizedName{Th: "S2", En: "S2"}})

	g, err := geo.Bind(h)
	require.NoError(t, err)

	zip := &geo.ZipCode{Code: "10200", SubDistricts: []*geo.BoundSubDistrict{
		g.SubDistricts["1-1-1"], g.SubDistricts["1-1-2"],
	}}
	g.ZipCodes["10200"] = zip
	return g
}

func TestExporter_StatementsAndOrder(t *testing.T) {
	rec := &recordingExecer{}
	e := NewExporter(observability.Nop())

	require.NoError(t, e.exportTx(context.Background(), rec, exportGraph(t)))

	var kinds []string
	for _, stmt := range rec.stmts {
		switch {
		case strings.HasPrefix(stmt.query, "CREATE TABLE"):
			kinds = append(kinds, "schema")
		case strings.HasPrefix(stmt.query, "INSERT INTO provinces"):
			kinds = append(kinds, "province")
		case strings.HasPrefix(stmt.query, "INSERT INTO districts"):
			kinds = append(kinds, "district")
		case strings.HasPrefix(stmt.query, "INSERT INTO sub_districts"):
			kinds = append(kinds, "sub_district")
		case strings.HasPrefix(stmt.query, "INSERT INTO zip_codes"):
			kinds = append(kinds, "zip_code")
		case strings.HasPrefix(stmt.query, "INSERT OR IGNORE INTO zip_code_areas"):
			kinds = append(kinds, "area")
		default:
			kinds = append(kinds, "unknown")
		}
	}

	assert.Equal(t, []string{
		"schema", "schema", "schema", "schema", "schema",
		"province", "district", "sub_district", "sub_district",
		"zip_code", "area", "area",
	}, kinds)
}

func TestExporter_RowValues(t *testing.T) {
	rec := &recordingExecer{}
	e := NewExporter(observability.Nop())

	require.NoError(t, e.exportTx(context.Background(), rec, exportGraph(t)))

	var subDistrictRows [][]interface{}
	var areaRows [][]interface{}
	for _, stmt := range rec.stmts {
		if strings.HasPrefix(stmt.query, "INSERT INTO sub_districts") {
			subDistrictRows = append(subDistrictRows, stmt.args)
		}
		if strings.HasPrefix(stmt.query, "INSERT OR IGNORE INTO zip_code_areas") {
			areaRows = append(areaRows, stmt.args)
		}
	}

	require.Len(t, subDistrictRows, 2)
	assert.Equal(t, []interface{}{"1-1-1", "1-1", "S1", "S1", 13.7, 100.5}, subDistrictRows[0])

	require.Len(t, areaRows, 2)
	assert.Equal(t, []interface{}{"10200", "1-1-1"}, areaRows[0])
	assert.Equal(t, []interface{}{"10200", "1-1-2"}, areaRows[1])
}
