// Package reconcile binds scraped postal-code assignments onto the
// canonical administrative graph: fuzzy province matching, exact district
// matching, and a narrow regex grammar for the free-text exception clauses
// that reroute individual sub-districts to an alternate code.
package reconcile

import "regexp"

// ExceptionRule states that the named sub-districts use PostalCode instead
// of the default code of their district's row.
type ExceptionRule struct {
	SubDistrictNames []string
	PostalCode       string
}

// Grammar extracts exception rules from notes text. Clause must capture the
// names span in group 1 and the 5-digit code in group 2; each Names pattern
// captures one sub-district name in group 1. The grammar is deliberately a
// pattern extractor, not a tolerant parser: creatively worded notes
// under-match and surface later as unmatched names, never as bad data.
type Grammar struct {
	Clause *regexp.Regexp
	Names  []*regexp.Regexp
}

// DefaultGrammar matches the Thai wording used by the source documents:
// clauses of the form "ยกเว้น <names> ใช้รหัส <code>", with sub-district
// names introduced by ตำบล (rural) or แขวง (Bangkok urban) and trimmed at
// the original word boundaries.
func DefaultGrammar() Grammar {
	return Grammar{
		Clause: regexp.MustCompile(`ยกเว้น([^ใช้]+)ใช้รหัส\s*(\d{5})`),
		Names: []*regexp.Regexp{
			regexp.MustCompile(`ตำบล([^\s,และใช้เฉพาะ]+)`),
			regexp.MustCompile(`แขวง([^\s,และใช้เฉพาะ]+)`),
		},
	}
}

// ParseExceptions returns every rule found in notes, in source order.
// Clauses naming no extractable sub-district are dropped.
func (g Grammar) ParseExceptions(notes string) []ExceptionRule {
	if notes == "" {
		return nil
	}

	var rules []ExceptionRule
	for _, clause := range g.Clause.FindAllStringSubmatch(notes, -1) {
		span, code := clause[1], clause[2]

		var names []string
		for _, pattern := range g.Names {
			for _, m := range pattern.FindAllStringSubmatch(span, -1) {
				names = append(names, m[1])
			}
		}

		if len(names) > 0 {
			rules = append(rules, ExceptionRule{SubDistrictNames: names, PostalCode: code})
		}
	}
	return rules
}
