package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thaigeo/postal/internal/geo"
)

// jsonDocument is the JSON export shape: nested hierarchy with zip codes
// listed per sub-district, in first-seen source order throughout.
type jsonDocument struct {
	Provinces []jsonProvince `json:"provinces"`
}

type jsonProvince struct {
	Code      string         `json:"code"`
	NameTh    string         `json:"name_th"`
	NameEn    string         `json:"name_en"`
	Districts []jsonDistrict `json:"districts"`
}

type jsonDistrict struct {
	Code         string            `json:"code"`
	NameTh       string            `json:"name_th"`
	NameEn       string            `json:"name_en"`
	SubDistricts []jsonSubDistrict `json:"sub_districts"`
}

type jsonSubDistrict struct {
	Code     string   `json:"code"`
	NameTh   string   `json:"name_th"`
	NameEn   string   `json:"name_en"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	ZipCodes []string `json:"zip_codes"`
}

// WriteJSON writes the compiled graph as one JSON document.
func WriteJSON(w io.Writer, g *geo.Graph) error {
	doc := jsonDocument{Provinces: make([]jsonProvince, 0, len(g.ProvinceOrder))}

	for _, key := range g.ProvinceOrder {
		p := g.Provinces[key]
		jp := jsonProvince{
			Code:      p.Code,
			NameTh:    p.Title.Th,
			NameEn:    p.Title.En,
			Districts: make([]jsonDistrict, 0, len(p.Districts)),
		}
		for _, d := range p.Districts {
			jd := jsonDistrict{
				Code:         d.Code,
				NameTh:       d.Title.Th,
				NameEn:       d.Title.En,
				SubDistricts: make([]jsonSubDistrict, 0, len(d.SubDistricts)),
			}
			for _, s := range d.SubDistricts {
				js := jsonSubDistrict{
					Code:     s.Code,
					NameTh:   s.Title.Th,
					NameEn:   s.Title.En,
					Lat:      s.Lat,
					Lng:      s.Lng,
					ZipCodes: make([]string, 0, len(s.ZipCodes)),
				}
				for _, zip := range s.ZipCodes {
					js.ZipCodes = append(js.ZipCodes, zip.Code)
				}
				jd.SubDistricts = append(jd.SubDistricts, js)
			}
			jp.Districts = append(jp.Districts, jd)
		}
		doc.Provinces = append(doc.Provinces, jp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}
