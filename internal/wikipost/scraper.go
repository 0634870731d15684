package wikipost

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/thaigeo/postal/internal/geo"
	"github.com/thaigeo/postal/internal/observability"
)

// ErrProvinceValidation marks a section heading that resolves to no known
// province. Fatal: it signals a schema change in the source page, not a
// data gap.
var ErrProvinceValidation = errors.New("wikipost: province validation failed")

// RawTuple is one scraped district/postal-code assignment, carrying the
// canonical bilingual province name it was validated against.
type RawTuple struct {
	ProvinceTh string
	ProvinceEn string
	District   string
	PostalCode string
	Notes      string
}

var (
	headingPattern = regexp.MustCompile(`^([^\s(]+)(?:\s*\(([^)]+)\))?`)
	postcodeRuns   = regexp.MustCompile(`\d{5}`)
)

// NormalizeProvinceName produces the lookup key for a province heading:
// lower-cased, trimmed, with the "จ. " abbreviation prefix stripped.
func NormalizeProvinceName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(name), "จ. ", ""))
}

// Scraper extracts raw tuples from the source page. Each h2 heading with a
// stable id names a province, validated against the canonical lookup; the
// heading is followed by a table whose rows pair a district with one or
// more postal codes and an optional note.
type Scraper struct {
	logger *observability.Logger
}

// NewScraper creates a scraper.
func NewScraper(logger *observability.Logger) *Scraper {
	return &Scraper{logger: logger.WithComponent("wikipost")}
}

// Parse extracts all tuples from html. provinces is keyed by normalized
// Thai province name.
func (s *Scraper) Parse(html []byte, provinces map[string]geo.LocalizedName) ([]RawTuple, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tuples []RawTuple
	var parseErr error

	doc.Find("h2[id]").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.TrimSpace(heading.Find(".mw-headline").Text())
		if text == "" {
			text = strings.TrimSpace(heading.Text())
		}
		if text == "" {
			return true
		}

		match := headingPattern.FindStringSubmatch(text)
		nameTh := text
		if match != nil {
			nameTh = match[1]
		}

		province, ok := provinces[NormalizeProvinceName(nameTh)]
		if !ok {
			parseErr = fmt.Errorf("%w: heading %q matches no known province", ErrProvinceValidation, nameTh)
			return false
		}

		// The data table is the next structural block after the heading's
		// wrapper div.
		table := heading.Parent().Next()
		if !table.Is("table") {
			return true
		}

		table.Find("tr").Each(func(rowIndex int, row *goquery.Selection) {
			if rowIndex == 0 {
				return // header row
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}

			district := strings.TrimSpace(cells.Eq(0).Text())
			if district == "" {
				return
			}
			notes := ""
			if cells.Length() > 2 {
				notes = strings.TrimSpace(cells.Eq(2).Text())
			}

			for _, code := range postcodeRuns.FindAllString(cells.Eq(1).Text(), -1) {
				tuples = append(tuples, RawTuple{
					ProvinceTh: province.Th,
					ProvinceEn: province.En,
					District:   district,
					PostalCode: code,
					Notes:      notes,
				})
			}
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	s.logger.Info().Int("tuples", len(tuples)).Msg("extracted postal-code tuples")
	return tuples, nil
}
