// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Concept is a controlled-vocabulary term (ELSST) with a stable URI.
// Identity is the URI: two instances with the same URI must be merged
// (union of MatchingKeywords, max confidence), never duplicated.
type Concept struct {
	URI               string   `json:"uri" yaml:"uri"`
	PreferredLabel    string   `json:"preferred_label" yaml:"preferred_label"`
	AlternativeLabels []string `json:"alternative_labels,omitempty" yaml:"alternative_labels,omitempty"`
	BroaderConcepts   []string `json:"broader_concepts,omitempty" yaml:"broader_concepts,omitempty"`
	Definition        string   `json:"definition,omitempty" yaml:"definition,omitempty"`
	Confidence        float64  `json:"confidence_score" yaml:"confidence_score"`
	MatchingKeywords  []string `json:"matching_keywords,omitempty" yaml:"matching_keywords,omitempty"`
}

// Concept mapping method markers. MappingNoMatches distinguishes "tried
// and found nothing" from "never tried".
const (
	MappingVocabulary = "vocabulary_similarity"
	MappingNoMatches  = "no_matches"
)

// ConceptMapping is the cached result of resolving one keyword set:
// concepts partitioned into primary (confidence >= 0.7) and secondary
// (0.3 <= confidence < 0.7) tiers.
type ConceptMapping struct {
	PublicationTitle string   `json:"publication_title" yaml:"publication_title"`
	Keywords         []string `json:"keywords" yaml:"keywords"`

	Primary   []Concept `json:"primary_concepts,omitempty" yaml:"primary_concepts,omitempty"`
	Secondary []Concept `json:"secondary_concepts,omitempty" yaml:"secondary_concepts,omitempty"`

	TotalFound int       `json:"total_concepts_found" yaml:"total_concepts_found"`
	Confidence float64   `json:"mapping_confidence" yaml:"mapping_confidence"`
	Method     string    `json:"mapping_method" yaml:"mapping_method"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Concepts returns all mapped concepts, primary tier first.
func (m ConceptMapping) Concepts() []Concept {
	out := make([]Concept, 0, len(m.Primary)+len(m.Secondary))
	out = append(out, m.Primary...)
	out = append(out, m.Secondary...)
	return out
}

// ConceptIndexEntry is the fast-path index record keyed by a normalized
// keyword. Created or overwritten whenever a keyword is resolved via the
// full matching path; an index hit only reads.
type ConceptIndexEntry struct {
	URI            string    `json:"uri"`
	PreferredLabel string    `json:"preferred_label"`
	Confidence     float64   `json:"confidence_score"`
	LastUpdated    time.Time `json:"last_updated"`
}
