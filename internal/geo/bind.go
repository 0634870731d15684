package geo

import "fmt"

// Bind wires the raw hierarchy into a containment graph. Parent lookup is
// purely structural: a district's province is the key prefix before the last
// separator, and likewise for sub-districts. A missing parent means the
// hierarchy builder and the binder disagree on the key scheme, which is a
// fatal inconsistency rather than a skippable row.
func Bind(h *Hierarchy) (*Graph, error) {
	g := &Graph{
		Provinces:        make(map[string]*BoundProvince, len(h.Provinces)),
		Districts:        make(map[string]*BoundDistrict, len(h.Districts)),
		SubDistricts:     make(map[string]*BoundSubDistrict, len(h.SubDistricts)),
		ZipCodes:         make(map[string]*ZipCode),
		ProvinceOrder:    h.ProvinceOrder,
		DistrictOrder:    h.DistrictOrder,
		SubDistrictOrder: h.SubDistrictOrder,
	}

	for _, key := range h.ProvinceOrder {
		g.Provinces[key] = &BoundProvince{Province: *h.Provinces[key]}
	}

	for _, key := range h.DistrictOrder {
		parent, ok := g.Provinces[ParentKey(key)]
		if !ok {
			return nil, fmt.Errorf("bind district %q: no province under key %q", key, ParentKey(key))
		}
		d := &BoundDistrict{District: *h.Districts[key], Province: parent}
		parent.Districts = append(parent.Districts, d)
		g.Districts[key] = d
	}

	for _, key := range h.SubDistrictOrder {
		parent, ok := g.Districts[ParentKey(key)]
		if !ok {
			return nil, fmt.Errorf("bind sub-district %q: no district under key %q", key, ParentKey(key))
		}
		s := &BoundSubDistrict{SubDistrict: *h.SubDistricts[key], District: parent}
		parent.SubDistricts = append(parent.SubDistricts, s)
		g.SubDistricts[key] = s
	}

	return g, nil
}
