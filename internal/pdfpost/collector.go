package pdfpost

import "strings"

// Record is one postal-code line assembled from the token stream, carrying
// the province and district headings in force and any exception clauses
// accumulated since the last heading or postcode.
type Record struct {
	Province       string
	District       string
	PostalCode     string
	ExceptionNotes string
}

// Collector folds an ordered token stream into records. A province or
// district token replaces the current heading and discards pending
// clauses; clause tokens accumulate; a postcode token commits a record.
// Province and district persist across postcodes because one district
// commonly lists several codes.
type Collector struct {
	currentProvince string
	currentDistrict string
	currentClauses  []string

	out []Record
}

// NewCollector returns a collector with empty state.
func NewCollector() *Collector {
	return &Collector{}
}

// Collect consumes one token. A postcode arriving before any heading still
// commits a record with empty province/district; reconciliation reports it
// as unmatched instead of this stage failing.
func (c *Collector) Collect(tok Token) {
	switch tok.Kind {
	case KindProvince:
		c.currentProvince = tok.Text
		c.currentClauses = nil
	case KindDistrict:
		c.currentDistrict = tok.Text
		c.currentClauses = nil
	case KindClause:
		c.currentClauses = append(c.currentClauses, tok.Text)
	case KindPostcode:
		c.out = append(c.out, Record{
			Province:       c.currentProvince,
			District:       c.currentDistrict,
			PostalCode:     tok.Text,
			ExceptionNotes: strings.Join(c.currentClauses, " "),
		})
		c.currentClauses = nil
	}
}

// Records returns everything committed so far, in stream order.
func (c *Collector) Records() []Record {
	return c.out
}
