// Package pdfpost extracts postal-code records from the legacy postal-code
// PDF: a multi-page, multi-column table laid out positionally. Text
// fragments are classified by where they sit on the page and which font
// they use, ordered into reading order, then folded into records by a
// small state machine.
package pdfpost

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Kind classifies a text fragment's role in the table layout.
type Kind string

const (
	KindPostcode Kind = "postcode"
	KindDistrict Kind = "district"
	KindProvince Kind = "province"
	KindClause   Kind = "clause"
)

// Fragment is one positioned text run from a PDF page. X and Y are the
// translation components of the glyph transform; Font is the PDF-internal
// font identifier.
type Fragment struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Font   string
}

// Token is a classified fragment with its resolved column number.
type Token struct {
	Text   string
	Kind   Kind
	Page   int
	Column int // 1-based, left to right
	X      float64
	Y      float64
}

// LayoutConfig holds the layout heuristics for one edition of the source
// document. The defaults fit the Thailand Post table PDF; a re-laid-out
// edition should only ever require new numbers here, not new logic.
type LayoutConfig struct {
	Columns           int     `yaml:"columns"`
	IndentX           float64 `yaml:"indent_x"`
	MaxY              float64 `yaml:"max_y"`
	LeftEdgeTolerance float64 `yaml:"left_edge_tolerance"`
	RowBucket         float64 `yaml:"row_bucket"`
	ProvinceFont      string  `yaml:"province_font"`
}

// DefaultLayoutConfig returns the layout constants of the current Thailand
// Post PDF edition.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Columns:           7,
		IndentX:           60,
		MaxY:              2250,
		LeftEdgeTolerance: 20,
		RowBucket:         3,
		ProvinceFont:      "g_d0_f2",
	}
}

var postcodePattern = regexp.MustCompile(`^\d{5}`)

// ClassifyPage assigns each fragment of one page to a column and a kind.
// Column thresholds are computed rightmost-first: a fragment belongs to the
// first threshold its x exceeds, and the found index is reversed into a
// left-to-right column number. Fragments left of every threshold, below the
// footnote cutoff, or blank are dropped.
func ClassifyPage(cfg LayoutConfig, pageNum int, pageWidth float64, frags []Fragment) []Token {
	colWidth := (pageWidth - cfg.IndentX*2) / float64(cfg.Columns)
	thresholds := make([]float64, cfg.Columns)
	for i := range thresholds {
		thresholds[i] = float64(cfg.Columns-i-1)*colWidth + cfg.IndentX
	}

	tokens := make([]Token, 0, len(frags))
	for _, frag := range frags {
		text := strings.TrimSpace(frag.Text)
		if text == "" || frag.Y > cfg.MaxY {
			continue
		}

		matched := 0
		for i, threshold := range thresholds {
			if frag.X > threshold {
				matched = i + 1
				break
			}
		}
		if matched == 0 {
			continue
		}

		leftEdge := thresholds[matched-1]
		tokens = append(tokens, Token{
			Text:   text,
			Kind:   classify(cfg, text, frag, leftEdge),
			Page:   pageNum,
			Column: cfg.Columns - matched + 1,
			X:      frag.X,
			Y:      frag.Y,
		})
	}
	return tokens
}

// classify picks the fragment kind by priority: leading 5-digit run, then
// left-hugged heading, then the reserved province font, else free text.
func classify(cfg LayoutConfig, text string, frag Fragment, leftEdge float64) Kind {
	switch {
	case postcodePattern.MatchString(text):
		return KindPostcode
	case math.Abs(leftEdge-frag.X) < cfg.LeftEdgeTolerance:
		return KindDistrict
	case frag.Font == cfg.ProvinceFont:
		return KindProvince
	default:
		return KindClause
	}
}

// SortTokens orders tokens into reading order: page, then column, then
// coarse row bucket top-to-bottom (PDF y grows upward, so larger y sorts
// first), then x. The sort is stable so fragments sharing a bucket keep
// their extraction order.
func SortTokens(cfg LayoutConfig, tokens []Token) {
	bucket := func(y float64) int {
		return int(math.Floor(y / cfg.RowBucket))
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if bucket(a.Y) != bucket(b.Y) {
			return bucket(a.Y) > bucket(b.Y)
		}
		return a.X < b.X
	})
}
