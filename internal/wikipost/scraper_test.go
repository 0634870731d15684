package wikipost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

const fixtureHTML = `<html><body>
<div class="mw-heading"><h2 id="bangkok"><span class="mw-headline">กรุงเทพมหานคร (Bangkok)</span></h2></div>
<table>
  <tr><th>เขต</th><th>รหัสไปรษณีย์</th><th>หมายเหตุ</th></tr>
  <tr><td>เขตพระนคร</td><td>10200</td><td></td></tr>
  <tr><td>เขตป้อมปราบศัตรูพ่าย</td><td>10100, 10110</td><td>ยกเว้นแขวงวัดโสมนัส ใช้รหัส 10300</td></tr>
  <tr><td></td><td>99999</td></tr>
  <tr><td>แถวไม่ครบ</td></tr>
</table>
<div class="mw-heading"><h2 id="samut">สมุทรปราการ</h2></div>
<table>
  <tr><th>อำเภอ</th><th>รหัสไปรษณีย์</th></tr>
  <tr><td>เมืองสมุทรปราการ</td><td>10270</td></tr>
</table>
<div class="mw-heading"><h2 id="no-table">กรุงเทพมหานคร</h2></div>
<p>ไม่มีตาราง</p>
</body></html>`

func provinceLookup() map[string]geo.LocalizedName {
	return map[string]geo.LocalizedName{
		NormalizeProvinceName("กรุงเทพมหานคร"): {Th: "กรุงเทพมหานคร", En: "Bangkok"},
		NormalizeProvinceName("สมุทรปราการ"):   {Th: "สมุทรปราการ", En: "Samut Prakan"},
	}
}

func TestScraper_Parse(t *testing.T) {
	s := NewScraper(observability.Nop())

	tuples, err := s.Parse([]byte(fixtureHTML), provinceLookup())
	require.NoError(t, err)

	// Row with two codes yields two tuples sharing the notes; empty-district
	// and short rows are skipped; heading without a table contributes nothing.
	require.Len(t, tuples, 4)

	assert.Equal(t, RawTuple{
		ProvinceTh: "กรุงเทพมหานคร",
		ProvinceEn: "Bangkok",
		District:   "เขตพระนคร",
		PostalCode: "10200",
	}, tuples[0])

	assert.Equal(t, "10100", tuples[1].PostalCode)
	assert.Equal(t, "10110", tuples[2].PostalCode)
	assert.Equal(t, tuples[1].Notes, tuples[2].Notes)
	assert.Contains(t, tuples[1].Notes, "ยกเว้น")

	assert.Equal(t, "สมุทรปราการ", tuples[3].ProvinceTh)
	assert.Equal(t, "เมืองสมุทรปราการ", tuples[3].District)
	assert.Equal(t, "10270", tuples[3].PostalCode)
}

func TestScraper_UnknownProvinceIsFatal(t *testing.T) {
	s := NewScraper(observability.Nop())

	html := `<div><h2 id="x">จังหวัดสมมุติ</h2></div><table><tr><th>h</th></tr></table>`
	_, err := s.Parse([]byte(html), provinceLookup())
	require.ErrorIs(t, err, ErrProvinceValidation)
	assert.Contains(t, err.Error(), "จังหวัดสมมุติ")
}

func TestNormalizeProvinceName(t *testing.T) {
	assert.Equal(t, "กรุงเทพมหานคร", NormalizeProvinceName(" กรุงเทพมหานคร "))
	assert.Equal(t, "เชียงใหม่", NormalizeProvinceName("จ. เชียงใหม่"))
	assert.Equal(t, "bangkok", NormalizeProvinceName("Bangkok"))
}
