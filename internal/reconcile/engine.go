package reconcile

import (
	"strings"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

// Tuple is one scraped district/postal-code assignment, source-agnostic:
// both the wiki tables and the legacy PDF collector reduce to this shape.
type Tuple struct {
	ProvinceTh string
	ProvinceEn string
	District   string
	PostalCode string
	Notes      string
}

// Options controls reconciliation behavior.
type Options struct {
	// MergeDedup unions duplicate sub-district contributions to the same
	// postal code by sub-district key instead of concatenating them.
	MergeDedup bool
}

// Engine matches tuples against the canonical graph and produces the final
// postal-code bindings. Mismatches are recorded on the diagnostics sink and
// never abort the run; by this stage the hierarchy itself is trusted.
type Engine struct {
	graph   *geo.Graph
	grammar Grammar
	opts    Options
	diags   *observability.Diagnostics
	logger  *observability.Logger
}

// NewEngine creates a reconciliation engine over a bound graph.
func NewEngine(graph *geo.Graph, grammar Grammar, opts Options, diags *observability.Diagnostics, logger *observability.Logger) *Engine {
	return &Engine{
		graph:   graph,
		grammar: grammar,
		opts:    opts,
		diags:   diags,
		logger:  logger.WithComponent("reconcile"),
	}
}

// contribution is one (code, sub-districts) pairing produced from a single
// tuple before merging.
type contribution struct {
	code         string
	subDistricts []*geo.BoundSubDistrict
}

// Reconcile processes every tuple, merges contributions per postal code
// into the graph's zip-code map, and attaches each zip code to the
// sub-districts it covers.
func (e *Engine) Reconcile(tuples []Tuple) map[string]*geo.ZipCode {
	for _, tuple := range tuples {
		district := e.matchDistrict(tuple)
		if district == nil {
			e.diags.UnmatchedTuple(tuple.ProvinceTh, tuple.District)
			e.logger.Warn().
				Str("province", tuple.ProvinceTh).
				Str("district", tuple.District).
				Str("postal_code", tuple.PostalCode).
				Msg("tuple matches no canonical district")
			continue
		}

		for _, contrib := range e.apportion(district, tuple) {
			e.merge(contrib)
		}
	}

	e.attach()

	e.logger.Info().Int("zip_codes", len(e.graph.ZipCodes)).Msg("reconciliation complete")
	return e.graph.ZipCodes
}

// matchDistrict finds the canonical district for a tuple: the province is
// matched fuzzily (case-insensitive equality or containment either way, in
// Thai or English) to tolerate abbreviated spellings, while the district
// name must match exactly.
func (e *Engine) matchDistrict(tuple Tuple) *geo.BoundDistrict {
	provinceTh := normalize(tuple.ProvinceTh)
	provinceEn := normalize(tuple.ProvinceEn)
	district := normalize(tuple.District)

	for _, key := range e.graph.DistrictOrder {
		candidate := e.graph.Districts[key]
		if normalize(candidate.Title.Th) != district {
			continue
		}
		province := candidate.Province
		if fuzzyEqual(normalize(province.Title.Th), provinceTh) ||
			(provinceEn != "" && fuzzyEqual(normalize(province.Title.En), provinceEn)) {
			return candidate
		}
	}
	return nil
}

// apportion splits a district's sub-districts between the tuple's exception
// rules and its own postal code. Each exception rule splices its named
// sub-districts out of the pool, so a sub-district is claimed by at most
// one rule and the remainder goes to the row's default code: the union of
// all contributions is exactly the district's full sub-district set.
func (e *Engine) apportion(district *geo.BoundDistrict, tuple Tuple) []contribution {
	pool := make([]*geo.BoundSubDistrict, len(district.SubDistricts))
	copy(pool, district.SubDistricts)

	var out []contribution
	for _, rule := range e.grammar.ParseExceptions(tuple.Notes) {
		var claimed []*geo.BoundSubDistrict
		for _, name := range rule.SubDistrictNames {
			idx := indexByThaiTitle(pool, name)
			if idx < 0 {
				e.diags.UnmatchedException(name)
				e.logger.Warn().Str("name", name).Str("district", district.Title.Th).
					Msg("exception rule names unknown sub-district")
				continue
			}
			claimed = append(claimed, pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
		}
		out = append(out, contribution{code: rule.PostalCode, subDistricts: claimed})
	}

	out = append(out, contribution{code: tuple.PostalCode, subDistricts: pool})
	return out
}

// merge folds one contribution into the running code map. Cross-tuple
// contributions to the same code are unioned; with MergeDedup on, repeated
// sub-districts collapse by key.
func (e *Engine) merge(contrib contribution) {
	zip, ok := e.graph.ZipCodes[contrib.code]
	if !ok {
		zip = &geo.ZipCode{Code: contrib.code}
		e.graph.ZipCodes[contrib.code] = zip
	}

	if !e.opts.MergeDedup {
		zip.SubDistricts = append(zip.SubDistricts, contrib.subDistricts...)
		return
	}

	seen := make(map[string]bool, len(zip.SubDistricts))
	for _, sd := range zip.SubDistricts {
		seen[sd.Code] = true
	}
	for _, sd := range contrib.subDistricts {
		if !seen[sd.Code] {
			seen[sd.Code] = true
			zip.SubDistricts = append(zip.SubDistricts, sd)
		}
	}
}

// attach stamps each zip code onto the sub-districts it covers, once per
// pair even when dedup is off.
func (e *Engine) attach() {
	for _, zip := range e.graph.ZipCodes {
		seen := make(map[*geo.BoundSubDistrict]bool, len(zip.SubDistricts))
		for _, sd := range zip.SubDistricts {
			if seen[sd] {
				continue
			}
			seen[sd] = true
			sd.ZipCodes = append(sd.ZipCodes, zip)
		}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func fuzzyEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func indexByThaiTitle(pool []*geo.BoundSubDistrict, name string) int {
	for i, sd := range pool {
		if sd.Title.Th == name {
			return i
		}
	}
	return -1
}
