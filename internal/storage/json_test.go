package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	g := exportGraph(t)
	g.SubDistricts["1-1-1"].ZipCodes = append(g.SubDistricts["1-1-1"].ZipCodes, g.ZipCodes["10200"])

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, g))

	var doc struct {
		Provinces []struct {
			Code      string `json:"code"`
			Districts []struct {
				Code         string `json:"code"`
				SubDistricts []struct {
					Code     string   `json:"code"`
					NameTh   string   `json:"name_th"`
					ZipCodes []string `json:"zip_codes"`
				} `json:"sub_districts"`
			} `json:"districts"`
		} `json:"provinces"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Provinces, 1)
	require.Len(t, doc.Provinces[0].Districts, 1)
	subs := doc.Provinces[0].Districts[0].SubDistricts
	require.Len(t, subs, 2)
	assert.Equal(t, "1-1-1", subs[0].Code)
	assert.Equal(t, "S1", subs[0].NameTh)
	assert.Equal(t, []string{"10200"}, subs[0].ZipCodes)
	assert.Empty(t, subs[1].ZipCodes)
}

// A sub-district with no coordinates in the source still exports lat/lng
// as explicit zeros; consumers must not have to guess between "absent"
// and "zero".
func TestWriteJSON_ZeroCoordinatesKept(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exportGraph(t)))

	var doc struct {
		Provinces []struct {
			Districts []struct {
				SubDistricts []map[string]interface{} `json:"sub_districts"`
			} `json:"districts"`
		} `json:"provinces"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	subs := doc.Provinces[0].Districts[0].SubDistricts
	require.Len(t, subs, 2)

	assert.Equal(t, 13.7, subs[0]["lat"])
	assert.Equal(t, 100.5, subs[0]["lng"])

	require.Contains(t, subs[1], "lat")
	require.Contains(t, subs[1], "lng")
	assert.Equal(t, 0.0, subs[1]["lat"])
	assert.Equal(t, 0.0, subs[1]["lng"])
}
