// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Publication identifies one bibliographic record from the catalog.
// Authors is the free-form citation-style string as it appears in the
// source CSV, e.g. "Dijkstra, A. & van Wissen, L.".
type Publication struct {
	Title   string `json:"title" yaml:"title"`
	Authors string `json:"authors" yaml:"authors"`
	URI     string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// SourceResult is the transient output of a single source adapter. It is
// never persisted directly; the pipeline folds it into a ContentRecord.
type SourceResult struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Abstract         string   `json:"abstract"`
	DOI              string   `json:"doi"`
	Journal          string   `json:"journal"`
	Confidence       float64  `json:"confidence"`
	Method           string   `json:"method"`
	ExplicitKeywords []string `json:"explicit_keywords,omitempty"`

	// Secondary identifiers harvested during page extraction.
	PMID    string   `json:"pmid,omitempty"`
	ArxivID string   `json:"arxiv_id,omitempty"`
	Handle  string   `json:"handle,omitempty"`
	Other   []string `json:"other_identifiers,omitempty"`
}

// MethodNotFound marks the canonical empty result returned when the
// cascade is exhausted without finding an abstract. Callers must treat it
// as "proceed with degraded data", never as an error.
const MethodNotFound = "not_found"

// NotFoundResult returns the canonical empty result for title.
func NotFoundResult(title string) SourceResult {
	return SourceResult{Title: title, Method: MethodNotFound}
}

// Found reports whether the result carries an abstract.
func (r SourceResult) Found() bool {
	return r.Method != MethodNotFound && r.Abstract != ""
}

// ContentRecord is the cached, enriched snapshot of one publication:
// the best abstract found, identifiers, and the ranked keyword sets.
// Immutable once written except for whole-record replacement.
type ContentRecord struct {
	PublicationTitle   string `json:"publication_title" yaml:"publication_title"`
	PublicationAuthors string `json:"publication_authors" yaml:"publication_authors"`
	PublicationURI     string `json:"publication_uri,omitempty" yaml:"publication_uri,omitempty"`

	FoundURL   string `json:"found_url,omitempty" yaml:"found_url,omitempty"`
	FoundTitle string `json:"found_title,omitempty" yaml:"found_title,omitempty"`
	Abstract   string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	PMID       string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	ArxivID    string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	Handle     string `json:"handle,omitempty" yaml:"handle,omitempty"`

	ExplicitKeywords  []string `json:"explicit_keywords,omitempty" yaml:"explicit_keywords,omitempty"`
	GeneratedKeywords []string `json:"generated_keywords,omitempty" yaml:"generated_keywords,omitempty"`
	PrimaryKeywords   []string `json:"primary_keywords,omitempty" yaml:"primary_keywords,omitempty"`
	SecondaryKeywords []string `json:"secondary_keywords,omitempty" yaml:"secondary_keywords,omitempty"`

	Confidence float64   `json:"confidence" yaml:"confidence"`
	Method     string    `json:"method" yaml:"method"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Keywords returns the ranked keyword set, primary tier first.
func (r ContentRecord) Keywords() []string {
	out := make([]string, 0, len(r.PrimaryKeywords)+len(r.SecondaryKeywords))
	out = append(out, r.PrimaryKeywords...)
	out = append(out, r.SecondaryKeywords...)
	return out
}
