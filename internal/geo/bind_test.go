package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHierarchy(t *testing.T) *Hierarchy {
	t.Helper()

	scheme := DefaultKeyScheme()
	h := NewHierarchy()

	rows := []struct {
		provinceID, districtID, subDistrictID string
		province, district, subDistrict       string
	}{
		{"10", "01", "01", "Bangkok", "Phra Nakhon", "Phra Borom Maha Ratchawang"},
		{"10", "01", "02", "Bangkok", "Phra Nakhon", "Wang Burapha Phirom"},
		{"10", "02", "01", "Bangkok", "Dusit", "Dusit"},
		{"11", "01", "01", "Samut Prakan", "Mueang", "Pak Nam"},
	}

	for _, row := range rows {
		p := &Province{Title: LocalizedName{Th: row.province, En: row.province}}
		h.AddProvince(scheme.Province(row.provinceID, p), p)

		d := &District{Title: LocalizedName{Th: row.district, En: row.district}}
		h.AddDistrict(scheme.District(row.provinceID, row.districtID, d), d)

		s := &SubDistrict{Title: LocalizedName{Th: row.subDistrict, En: row.subDistrict}}
		h.AddSubDistrict(scheme.SubDistrict(row.provinceID, row.districtID, row.subDistrictID, s), s)
	}

	return h
}

func TestKeyComposition(t *testing.T) {
	h := testHierarchy(t)

	for _, key := range h.SubDistrictOrder {
		districtKey := ParentKey(key)
		provinceKey := ParentKey(districtKey)

		_, ok := h.Districts[districtKey]
		assert.True(t, ok, "district key %q must resolve", districtKey)
		_, ok = h.Provinces[provinceKey]
		assert.True(t, ok, "province key %q must resolve", provinceKey)
		assert.Equal(t, provinceKey, ProvinceKey(key))
	}
}

func TestBind_ContainmentAndBackRefs(t *testing.T) {
	g, err := Bind(testHierarchy(t))
	require.NoError(t, err)

	require.Len(t, g.Provinces, 2)
	require.Len(t, g.Districts, 3)
	require.Len(t, g.SubDistricts, 4)

	bangkok := g.Provinces["10"]
	require.NotNil(t, bangkok)
	require.Len(t, bangkok.Districts, 2)
	assert.Equal(t, "10-01", bangkok.Districts[0].Code, "insertion order preserved")
	assert.Equal(t, "10-02", bangkok.Districts[1].Code)

	phraNakhon := g.Districts["10-01"]
	require.NotNil(t, phraNakhon)
	assert.Same(t, bangkok, phraNakhon.Province)
	require.Len(t, phraNakhon.SubDistricts, 2)

	sd := g.SubDistricts["10-01-02"]
	require.NotNil(t, sd)
	assert.Same(t, phraNakhon, sd.District)
	assert.Empty(t, sd.ZipCodes, "zip codes attach later during reconciliation")
}

func TestBind_MissingParentFails(t *testing.T) {
	h := NewHierarchy()
	h.AddDistrict("10-01", &District{Title: LocalizedName{Th: "orphan"}})

	_, err := Bind(h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no province")
}

func TestHierarchy_FirstSeenWins(t *testing.T) {
	h := NewHierarchy()

	first := &SubDistrict{Title: LocalizedName{Th: "first"}}
	second := &SubDistrict{Title: LocalizedName{Th: "second"}}

	assert.True(t, h.AddSubDistrict("10-01-01", first))
	assert.False(t, h.AddSubDistrict("10-01-01", second))
	assert.Equal(t, "first", h.SubDistricts["10-01-01"].Title.Th)
	assert.Equal(t, []string{"10-01-01"}, h.SubDistrictOrder)
	assert.Equal(t, "10-01-01", first.Code, "code rewritten to derived key")
}

func TestParentKey(t *testing.T) {
	assert.Equal(t, "10-01", ParentKey("10-01-07"))
	assert.Equal(t, "10", ParentKey("10-01"))
	assert.Equal(t, "", ParentKey("10"))
}
