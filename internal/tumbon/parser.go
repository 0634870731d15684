// Package tumbon builds the canonical administrative hierarchy from the
// tumbon spreadsheet: one row per sub-district, carrying the natural ids
// and bilingual names of its province (changwat) and district (amphoe).
package tumbon

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

// ErrMissingSource marks a spreadsheet with no usable worksheet, headers or
// data rows. It is fatal: the canonical hierarchy cannot be built without it.
var ErrMissingSource = errors.New("tumbon: missing source data")

// Column headers expected on the first worksheet. LAT/LONG and AD_LEVEL are
// optional; everything else is required on every row.
const (
	colProvinceID = "CH_ID"
	colProvinceTh = "CHANGWAT_T"
	colProvinceEn = "CHANGWAT_E"
	colDistrictID = "AM_ID"
	colDistrictEn = "AMPHOE_E"
	colSubID      = "TA_ID"
	colSubTh      = "TAMBON_T"
	colSubEn      = "TAMBON_E"
	colLat        = "LAT"
	colLng        = "LONG"
)

var requiredColumns = []string{
	colProvinceID, colProvinceTh, colProvinceEn,
	colDistrictID, colDistrictEn,
	colSubID, colSubTh, colSubEn,
}

// Parser converts spreadsheet rows into the three deduplicated raw-record
// maps using a pluggable key scheme. Duplicate sub-district keys are
// first-seen-wins and tallied on the diagnostics sink.
type Parser struct {
	scheme geo.KeyScheme
	diags  *observability.Diagnostics
	logger *observability.Logger
}

// NewParser creates a hierarchy parser.
func NewParser(scheme geo.KeyScheme, diags *observability.Diagnostics, logger *observability.Logger) *Parser {
	return &Parser{
		scheme: scheme,
		diags:  diags,
		logger: logger.WithComponent("tumbon"),
	}
}

// row is one decoded spreadsheet row.
type row struct {
	provinceID, provinceTh, provinceEn string
	districtID, districtEn             string
	subID, subTh, subEn                string
	lat, lng                           float64
}

// Parse reads the first worksheet and builds the hierarchy. Any row failing
// required-field decoding fails the whole import; partial hierarchies are
// worse than loud failures here because every later stage trusts this one.
func (p *Parser) Parse(r io.Reader) (*geo.Hierarchy, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheets", ErrMissingSource)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("%w: worksheet %q has no data rows", ErrMissingSource, sheets[0])
	}

	cols, err := headerIndex(cells[0])
	if err != nil {
		return nil, err
	}

	h := geo.NewHierarchy()
	for i, line := range cells[1:] {
		rec, err := decodeRow(cols, line)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		p.addRow(h, rec)
	}

	p.logger.Info().
		Int("provinces", len(h.Provinces)).
		Int("districts", len(h.Districts)).
		Int("sub_districts", len(h.SubDistricts)).
		Int("duplicate_keys", p.diags.DuplicateKeys.Count).
		Msg("hierarchy built")

	return h, nil
}

// addRow derives the three keys for one row and inserts any record not seen
// before. Records' Code fields are rewritten to the derived keys by the
// hierarchy, so downstream components never see the natural ids again.
func (p *Parser) addRow(h *geo.Hierarchy, rec row) {
	province := &geo.Province{Title: geo.LocalizedName{Th: rec.provinceTh, En: rec.provinceEn}}
	provinceKey := p.scheme.Province(rec.provinceID, province)
	h.AddProvince(provinceKey, province)

	// No Thai district name exists in this source; the English name fills
	// both title fields.
	district := &geo.District{Title: geo.LocalizedName{Th: rec.districtEn, En: rec.districtEn}}
	districtKey := p.scheme.District(rec.provinceID, rec.districtID, district)
	h.AddDistrict(districtKey, district)

	sub := &geo.SubDistrict{
		Title: geo.LocalizedName{Th: rec.subTh, En: rec.subEn},
		Lat:   rec.lat,
		Lng:   rec.lng,
	}
	subKey := p.scheme.SubDistrict(rec.provinceID, rec.districtID, rec.subID, sub)
	if !h.AddSubDistrict(subKey, sub) {
		p.diags.DuplicateKey(subKey)
	}
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMissingSource, name)
		}
	}
	return cols, nil
}

func decodeRow(cols map[string]int, line []string) (row, error) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(line) {
			return ""
		}
		return line[idx]
	}

	rec := row{
		provinceID: cell(colProvinceID),
		provinceTh: cell(colProvinceTh),
		provinceEn: cell(colProvinceEn),
		districtID: cell(colDistrictID),
		districtEn: cell(colDistrictEn),
		subID:      cell(colSubID),
		subTh:      cell(colSubTh),
		subEn:      cell(colSubEn),
	}

	for name, value := range map[string]string{
		colProvinceID: rec.provinceID,
		colProvinceTh: rec.provinceTh,
		colProvinceEn: rec.provinceEn,
		colDistrictID: rec.districtID,
		colDistrictEn: rec.districtEn,
		colSubID:      rec.subID,
		colSubTh:      rec.subTh,
		colSubEn:      rec.subEn,
	} {
		if value == "" {
			return row{}, fmt.Errorf("empty required field %s", name)
		}
	}

	// Coordinates are a best-effort supplement; absent or malformed values
	// stay zero rather than failing the import.
	if v, err := strconv.ParseFloat(cell(colLat), 64); err == nil {
		rec.lat = v
	}
	if v, err := strconv.ParseFloat(cell(colLng), 64); err == nil {
		rec.lng = v
	}

	return rec, nil
}
