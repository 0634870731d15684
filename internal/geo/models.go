// Package geo defines the administrative-area data model: raw records as
// parsed from source files, and the bound containment graph
// (province -> district -> sub-district -> zip code) built from them.
package geo

// LocalizedName holds the Thai and English spellings of an area name.
type LocalizedName struct {
	Th string
	En string
}

// Province is a raw first-tier record. Code starts as the natural id from
// the source and is rewritten to its derived key by the hierarchy builder.
type Province struct {
	Code  string
	Title LocalizedName
}

// District is a raw second-tier record.
type District struct {
	Code  string
	Title LocalizedName
}

// SubDistrict is a raw third-tier record. Lat/Lng come from the spreadsheet
// source and are zero when the source omits them.
type SubDistrict struct {
	Code  string
	Title LocalizedName
	Lat   float64
	Lng   float64
}

// Hierarchy holds the three deduplicated raw-record maps produced by the
// hierarchy builder. The order slices preserve first-seen row order so the
// binder can build insertion-ordered containment lists.
type Hierarchy struct {
	Provinces    map[string]*Province
	Districts    map[string]*District
	SubDistricts map[string]*SubDistrict

	ProvinceOrder    []string
	DistrictOrder    []string
	SubDistrictOrder []string
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		Provinces:    make(map[string]*Province),
		Districts:    make(map[string]*District),
		SubDistricts: make(map[string]*SubDistrict),
	}
}

// AddProvince inserts a province under the given key if the key is new.
// Returns true when the record was inserted.
func (h *Hierarchy) AddProvince(key string, p *Province) bool {
	if _, ok := h.Provinces[key]; ok {
		return false
	}
	p.Code = key
	h.Provinces[key] = p
	h.ProvinceOrder = append(h.ProvinceOrder, key)
	return true
}

// AddDistrict inserts a district under the given key if the key is new.
func (h *Hierarchy) AddDistrict(key string, d *District) bool {
	if _, ok := h.Districts[key]; ok {
		return false
	}
	d.Code = key
	h.Districts[key] = d
	h.DistrictOrder = append(h.DistrictOrder, key)
	return true
}

// AddSubDistrict inserts a sub-district under the given key if the key is
// new. The first record seen for a key wins; callers track rejected keys
// for duplicate diagnostics.
func (h *Hierarchy) AddSubDistrict(key string, s *SubDistrict) bool {
	if _, ok := h.SubDistricts[key]; ok {
		return false
	}
	s.Code = key
	h.SubDistricts[key] = s
	h.SubDistrictOrder = append(h.SubDistrictOrder, key)
	return true
}

// BoundProvince is a province with its owned, insertion-ordered districts.
type BoundProvince struct {
	Province
	Districts []*BoundDistrict
}

// BoundDistrict is a district with its owned sub-districts and a
// non-owning back-reference to its province.
type BoundDistrict struct {
	District
	Province     *BoundProvince
	SubDistricts []*BoundSubDistrict
}

// BoundSubDistrict is a sub-district with the zip codes that cover it and a
// non-owning back-reference to its district. A zip code may be shared with
// other sub-districts.
type BoundSubDistrict struct {
	SubDistrict
	District *BoundDistrict
	ZipCodes []*ZipCode
}

// ZipCode is a 5-digit postal code and the sub-districts it covers.
type ZipCode struct {
	Code         string
	SubDistricts []*BoundSubDistrict
}

// Graph is the fully bound containment graph. ZipCodes starts empty and is
// populated by the reconciliation engine.
type Graph struct {
	Provinces    map[string]*BoundProvince
	Districts    map[string]*BoundDistrict
	SubDistricts map[string]*BoundSubDistrict
	ZipCodes     map[string]*ZipCode

	ProvinceOrder    []string
	DistrictOrder    []string
	SubDistrictOrder []string
}
