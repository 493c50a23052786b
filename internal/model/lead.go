package model

import (
	"strings"
	"time"
)

// timestampLayout renders second precision without a zone offset, matching
// the ledger's existing rows.
const timestampLayout = "2006-01-02T15:04:05"

// Header is the ledger column order. Every backend writes rows in this order
// and reads the website key from the same position.
var Header = []string{
	"timestamp",
	"search_query",
	"business_name",
	"website",
	"title",
	"description",
	"emails",
	"phones",
	"instagram",
	"facebook",
}

// WebsiteColumn is the zero-based index of the dedup key within Header.
const WebsiteColumn = 3

// Lead is one business candidate destined for the ledger.
type Lead struct {
	Timestamp    time.Time `json:"timestamp"`
	SearchQuery  string    `json:"search_query"`
	BusinessName string    `json:"business_name"` // never empty: title, else host, else raw URL
	Website      string    `json:"website"`       // dedup key
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Emails       []string  `json:"emails"` // set semantics, first-seen order
	Phones       []string  `json:"phones"` // set semantics, first-seen order
	Instagram    string    `json:"instagram"`
	Facebook     string    `json:"facebook"`
}

// Row renders the lead in Header order. Emails and phones are joined with
// ", " so a row stays one cell per column in every backend.
func (l Lead) Row() []string {
	return []string{
		l.Timestamp.Format(timestampLayout),
		l.SearchQuery,
		l.BusinessName,
		l.Website,
		l.Title,
		l.Description,
		strings.Join(l.Emails, ", "),
		strings.Join(l.Phones, ", "),
		l.Instagram,
		l.Facebook,
	}
}

// ParseResult distinguishes a successfully parsed page from unparsable
// content. Unparsable is an expected outcome, not an error.
type ParseResult struct {
	lead Lead
	ok   bool
}

// Parsed wraps a fully populated lead.
func Parsed(l Lead) ParseResult {
	return ParseResult{lead: l, ok: true}
}

// Unparsable marks content that yielded no lead (empty or unreadable page).
func Unparsable() ParseResult {
	return ParseResult{}
}

// OK reports whether the result carries a lead.
func (r ParseResult) OK() bool { return r.ok }

// Lead returns the parsed lead. Only meaningful when OK is true.
func (r ParseResult) Lead() Lead { return r.lead }
