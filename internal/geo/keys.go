package geo

import "strings"

// KeySeparator joins the segments of a composite key. Parent lookups in the
// binder split on it, so key-generation functions must never emit it inside
// a segment.
const KeySeparator = "-"

// KeyScheme is the pluggable key-generation strategy used by the hierarchy
// builder. Each function receives the natural ids of the record and its
// ancestors plus the record itself, and returns the derived key. The
// sub-district key must carry the district key as a prefix and the district
// key must carry the province key as a prefix, segment-wise, because the
// binder derives parents structurally via ParentKey.
type KeyScheme struct {
	Province    func(naturalID string, rec *Province) string
	District    func(provinceID, naturalID string, rec *District) string
	SubDistrict func(provinceID, districtID, naturalID string, rec *SubDistrict) string
}

// DefaultKeyScheme joins natural ids with KeySeparator:
// province "10", district "10-04", sub-district "10-04-07".
func DefaultKeyScheme() KeyScheme {
	return KeyScheme{
		Province: func(naturalID string, _ *Province) string {
			return naturalID
		},
		District: func(provinceID, naturalID string, _ *District) string {
			return strings.Join([]string{provinceID, naturalID}, KeySeparator)
		},
		SubDistrict: func(provinceID, districtID, naturalID string, _ *SubDistrict) string {
			return strings.Join([]string{provinceID, districtID, naturalID}, KeySeparator)
		},
	}
}

// ParentKey returns the composite key of a record's parent: all segments but
// the last. A single-segment key has no parent and yields "".
func ParentKey(key string) string {
	idx := strings.LastIndex(key, KeySeparator)
	if idx < 0 {
		return ""
	}
	return key[:idx]
}

// ProvinceKey returns the first segment of any composite key.
func ProvinceKey(key string) string {
	if idx := strings.Index(key, KeySeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}
