// Package phrase extracts handbook acknowledgment phrases from free-form
// message text. It is a pure function over strings: no I/O, no state beyond
// the compiled pattern.
package phrase

import (
	"fmt"
	"regexp"
	"strings"
)

// Acknowledgment is the parsed content of a matching phrase.
type Acknowledgment struct {
	// FullName is the claimed identity, trimmed of surrounding commas
	// and whitespace. It is a claim, not a verified identity.
	FullName string
	// Version is the handbook version token, e.g. "v2026-01-20".
	Version string
}

// Extractor matches the acknowledgment template for one organization.
type Extractor struct {
	org     string
	pattern *regexp.Regexp
}

// NewExtractor compiles the acknowledgment pattern for the given
// organization name. The match is case-insensitive and tolerates optional
// commas around the name:
//
//	I, Jane Doe, acknowledge and agree to the HHG Employee Handbook v2026-01-20
//
// The name capture is non-greedy, so a name containing the literal word
// "acknowledge" truncates at its first occurrence. Known limitation.
func NewExtractor(org string) *Extractor {
	p := fmt.Sprintf(
		`(?i)I,?\s+(.+?),?\s+acknowledge\s+and\s+agree\s+to\s+the\s+%s\s+Employee\s+Handbook\s+(v[\d-]+)`,
		regexp.QuoteMeta(org),
	)
	return &Extractor{org: org, pattern: regexp.MustCompile(p)}
}

// Organization returns the organization name the extractor was built for.
func (e *Extractor) Organization() string { return e.org }

// Extract scans text for the acknowledgment template. The second return
// value is false when the text does not match; that is an expected
// non-trigger, not an error.
func (e *Extractor) Extract(text string) (Acknowledgment, bool) {
	m := e.pattern.FindStringSubmatch(text)
	if m == nil {
		return Acknowledgment{}, false
	}
	return Acknowledgment{
		FullName: strings.TrimSpace(m[1]),
		Version:  strings.TrimSpace(m[2]),
	}, true
}
