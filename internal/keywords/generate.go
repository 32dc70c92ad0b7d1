// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords generates candidate keywords from a publication's
// title and abstract and ranks them together with explicit
// author-supplied keywords into primary and secondary tiers.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sshoc-nl/pubenrich/internal/textqual"
)

// maxGenerated caps the number of keywords produced from free text.
const maxGenerated = 10

// wordPattern matches alphabetic tokens of three or more letters.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// academicStopWords are words too generic to serve as keywords for an
// academic catalog: function words plus the boilerplate vocabulary of
// papers themselves.
var academicStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "cannot": {},
	"study": {}, "research": {}, "analysis": {}, "paper": {}, "article": {},
	"using": {}, "based": {}, "results": {}, "findings": {}, "conclusion": {},
	"abstract": {}, "introduction": {}, "method": {}, "approach": {},
	"data": {}, "model": {}, "framework": {}, "theory": {}, "evidence": {},
	"significant": {}, "important": {}, "different": {}, "various": {},
	"several": {}, "many": {}, "most": {}, "some": {}, "all": {}, "both": {},
}

// domainPattern is a recognizable disciplinary term. When it appears
// anywhere in the text it becomes a keyword regardless of frequency.
type domainPattern struct {
	domain string
	terms  []string
}

// domainPatterns cover the disciplines of a social-science catalog.
// Order is fixed so generation is deterministic.
var domainPatterns = []domainPattern{
	{"health", []string{"health", "medical", "disease", "treatment", "patient", "clinical", "epidemiology", "mortality", "morbidity"}},
	{"economics", []string{"economic", "economy", "market", "financial", "income", "employment", "labor", "business", "trade"}},
	{"social", []string{"social", "society", "community", "demographic", "population", "migration", "education", "policy"}},
	{"environment", []string{"environmental", "climate", "pollution", "sustainability", "green", "carbon", "energy"}},
	{"technology", []string{"technology", "digital", "innovation", "artificial", "intelligence", "data", "algorithm"}},
	{"urban", []string{"urban", "city", "housing", "transport", "infrastructure", "planning", "development"}},
}

// Generate extracts keywords from an abstract plus title by word
// frequency and domain-term spotting. Unreadable text falls back to the
// title alone; at most maxGenerated keywords are returned.
func Generate(text, title string) []string {
	text = strings.Join(strings.Fields(text), " ")
	title = strings.Join(strings.Fields(title), " ")
	if text == "" || !textqual.IsReadable(text) {
		if title == "" || !textqual.IsReadable(title) {
			return nil
		}
		text = title
	}

	fullText := strings.ToLower(strings.TrimSpace(title + " " + text))

	freq := make(map[string]int)
	for _, w := range wordPattern.FindAllString(fullText, -1) {
		if _, stop := academicStopWords[w]; stop {
			continue
		}
		freq[w]++
	}

	type wordCount struct {
		word  string
		count int
	}
	counts := make([]wordCount, 0, len(freq))
	for w, n := range freq {
		counts = append(counts, wordCount{w, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})
	if len(counts) > 20 {
		counts = counts[:20]
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(w string) {
		if _, dup := seen[w]; dup || !textqual.IsValidKeyword(w) {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	// Frequent words need at least two occurrences; a single mention is
	// noise at abstract length.
	for _, wc := range counts {
		if wc.count >= 2 {
			add(wc.word)
		}
	}

	for _, dp := range domainPatterns {
		for _, term := range dp.terms {
			if strings.Contains(fullText, term) {
				add(term)
			}
		}
	}

	if len(out) > maxGenerated {
		out = out[:maxGenerated]
	}
	return out
}
