package quotes

import (
	"regexp"
	"strings"
)

// The instrument matcher scans ordered rule lists, rules in priority order and
// records in source order, first match wins. Slices keep selection
// deterministic for a given rule and record order.

// forwardRules identify the 3-month forward variant of the EUA instrument.
var forwardRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\beua\b.*\b3m\b`),
	regexp.MustCompile(`(?i)\beua-?3m\b`),
	regexp.MustCompile(`(?i)\beua\b.*\b3[-\s]?month(s)?\b`),
	regexp.MustCompile(`(?i)\beua\b.*\bq\+?1\b`),
}

// bareRules are the looser fallback: the instrument name without the 3-month
// qualifier.
var bareRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*eua\s*$`),
	regexp.MustCompile(`(?i)^\s*eua\b`),
}

// Select picks the target instrument from the record list: the forward rules
// first, then the bare-instrument fallback rules. Absence of a match is a
// valid, expected outcome.
func Select(records []Record) (Record, bool) {
	if r, ok := matchFirst(records, forwardRules); ok {
		return r, true
	}
	return matchFirst(records, bareRules)
}

func matchFirst(records []Record, rules []*regexp.Regexp) (Record, bool) {
	for _, rule := range rules {
		for _, record := range records {
			if rule.MatchString(strings.TrimSpace(record.ProductName)) {
				return record, true
			}
		}
	}
	return Record{}, false
}
