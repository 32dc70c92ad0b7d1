// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package concepts maps publication keywords onto ELSST controlled
// vocabulary concepts. Resolution combines an index fast path, exact and
// alias matching against a built-in vocabulary table, text similarity
// scoring, and an optional ELSST API fallback.
package concepts

import (
	"strings"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// vocabEntry is one built-in vocabulary concept keyed by its canonical
// term.
type vocabEntry struct {
	term         string
	uri          string
	label        string
	alternatives []string
	broader      []string
	definition   string
}

// vocabulary is the built-in ELSST subset covering the social-science
// catalog's common subjects. Order is significant: alias lookups resolve
// to the first entry that declares the alias.
var vocabulary = []vocabEntry{
	{
		term:         "economics",
		uri:          "https://elsst.cessda.eu/id/5/3b58eac5-38a9-4a8f-b50a-9c86ed21c210",
		label:        "ECONOMICS",
		alternatives: []string{"economic", "economy", "financial", "finance"},
		broader:      []string{"SOCIAL SCIENCES"},
		definition:   "The study of production, distribution, and consumption of goods and services",
	},
	{
		term:         "innovation",
		uri:          "https://elsst.cessda.eu/id/5/8f2c4d1a-9b3e-4c5f-a7d8-1e2f3a4b5c6d",
		label:        "INNOVATION",
		alternatives: []string{"innovative", "invention", "technological change"},
		broader:      []string{"ECONOMICS", "TECHNOLOGY"},
		definition:   "The process of introducing new ideas, methods, or products",
	},
	{
		term:         "labour market",
		uri:          "https://elsst.cessda.eu/id/5/3b58eac5-38a9-4a8f-b50a-9c86ed21c210",
		label:        "LABOUR MARKET",
		alternatives: []string{"employment", "jobs", "workforce", "labor market"},
		broader:      []string{"ECONOMICS"},
		definition:   "The supply and demand for labor in the economy",
	},
	{
		term:         "housing",
		uri:          "https://elsst.cessda.eu/id/5/24473156-aebb-4c02-83e2-ac6698cfb842",
		label:        "HOUSING POLICY",
		alternatives: []string{"housing market", "residential", "homes"},
		broader:      []string{"URBAN DEVELOPMENT"},
		definition:   "Policies and practices related to housing provision and markets",
	},
	{
		term:         "urban development",
		uri:          "https://elsst.cessda.eu/id/5/0dda29d6-ea7d-44bf-b65d-69ee321e4f71",
		label:        "URBAN DEVELOPMENT",
		alternatives: []string{"city planning", "urbanization", "urban planning"},
		broader:      []string{"GEOGRAPHY"},
		definition:   "The planning and development of urban areas",
	},
	{
		term:         "health",
		uri:          "https://elsst.cessda.eu/id/5/7c8d9e0f-1a2b-3c4d-5e6f-7a8b9c0d1e2f",
		label:        "HEALTH",
		alternatives: []string{"healthcare", "medical", "public health"},
		broader:      []string{"SOCIAL SCIENCES"},
		definition:   "Physical and mental well-being of individuals and populations",
	},
	{
		term:         "migration",
		uri:          "https://elsst.cessda.eu/id/5/4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c9d",
		label:        "MIGRATION",
		alternatives: []string{"immigration", "emigration", "mobility"},
		broader:      []string{"DEMOGRAPHY"},
		definition:   "Movement of people from one place to another",
	},
	{
		term:         "demography",
		uri:          "https://elsst.cessda.eu/id/5/9e8d7c6b-5a4f-3e2d-1c0b-9a8f7e6d5c4b",
		label:        "DEMOGRAPHY",
		alternatives: []string{"population", "demographic", "population studies"},
		broader:      []string{"SOCIAL SCIENCES"},
		definition:   "Statistical study of populations and population changes",
	},
	{
		term:         "education",
		uri:          "https://elsst.cessda.eu/id/5/2f3e4d5c-6b7a-8f9e-0d1c-2b3a4f5e6d7c",
		label:        "EDUCATION",
		alternatives: []string{"educational", "learning", "teaching", "training"},
		broader:      []string{"SOCIAL SCIENCES"},
		definition:   "The process of facilitating learning and knowledge acquisition",
	},
	{
		term:         "diversity",
		uri:          "https://elsst.cessda.eu/id/5/8c7b6a5f-4e3d-2c1b-0a9f-8e7d6c5b4a3f",
		label:        "CULTURAL DIVERSITY",
		alternatives: []string{"multicultural", "ethnic diversity", "cultural differences"},
		broader:      []string{"CULTURE"},
		definition:   "The variety of cultural groups within a society",
	},
	{
		term:         "business",
		uri:          "https://elsst.cessda.eu/id/5/5d4c3b2a-1f0e-9d8c-7b6a-5f4e3d2c1b0a",
		label:        "BUSINESS MANAGEMENT",
		alternatives: []string{"management", "business administration", "enterprise"},
		broader:      []string{"ECONOMICS"},
		definition:   "The administration and coordination of business activities",
	},
}

// Direct and alias lookup tables built once from the vocabulary. The
// alias index keeps first-match-wins semantics by construction order: an
// alias claimed by an earlier entry is never overwritten.
var (
	directIndex = make(map[string]*vocabEntry)
	aliasIndex  = make(map[string]*vocabEntry)
)

func init() {
	for i := range vocabulary {
		e := &vocabulary[i]
		directIndex[e.term] = e
		for _, alt := range e.alternatives {
			alt = strings.ToLower(alt)
			if _, claimed := aliasIndex[alt]; !claimed {
				aliasIndex[alt] = e
			}
		}
	}
}

// concept materializes a types.Concept from a vocabulary entry.
func (e *vocabEntry) concept(confidence float64, matching ...string) types.Concept {
	return types.Concept{
		URI:               e.uri,
		PreferredLabel:    e.label,
		AlternativeLabels: append([]string(nil), e.alternatives...),
		BroaderConcepts:   append([]string(nil), e.broader...),
		Definition:        e.definition,
		Confidence:        confidence,
		MatchingKeywords:  matching,
	}
}

// lookupVocabulary matches one normalized keyword against the built-in
// table. A direct term match scores 1.0 and takes priority over an alias
// match at 0.8.
func lookupVocabulary(keyword string) (types.Concept, bool) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if e, ok := directIndex[kw]; ok {
		return e.concept(directConfidence, keyword), true
	}
	if e, ok := aliasIndex[kw]; ok {
		return e.concept(aliasConfidence, keyword), true
	}
	return types.Concept{}, false
}
