// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// crossrefAPIBase is the CrossRef works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// crossrefOverlapFloor is the minimum stop-word-free title word overlap
// for a CrossRef hit to count as the same publication.
const crossrefOverlapFloor = 0.6

// CrossRefAdapter resolves a DOI and abstract by bibliographic title
// search. It is the most reliable source and runs first in the cascade.
type CrossRefAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *CrossRefAdapter) Name() string { return "crossref" }

// Search queries the CrossRef API by title and first author, then keeps
// the first candidate whose title overlaps the query title enough.
func (a *CrossRefAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	searchTitle := strings.TrimSuffix(strings.TrimSpace(title), ".")

	params := url.Values{
		"query.title": {searchTitle},
		"rows":        {"5"},
		"select":      {"DOI,title,author,container-title,URL,abstract"},
	}
	if fa := firstAuthor(authors); fa != "" {
		params.Set("query.author", fa)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	for _, item := range cr.Message.Items {
		if item.DOI == "" || len(item.Title) == 0 {
			continue
		}
		foundTitle := item.Title[0]
		overlap := titleOverlap(searchTitle, foundTitle)
		if overlap < crossrefOverlapFloor && !containsEither(searchTitle, foundTitle) {
			continue
		}

		r := types.SourceResult{
			URL:        "https://doi.org/" + item.DOI,
			Title:      foundTitle,
			Abstract:   stripJATS(item.Abstract),
			DOI:        item.DOI,
			Confidence: 0.95,
			Method:     "crossref_api",
		}
		if len(item.ContainerTitle) > 0 {
			r.Journal = item.ContainerTitle[0]
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// overlapStopWords are ignored when comparing titles.
var overlapStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {},
}

// titleOverlap returns the fraction of query title words (stop words
// removed) that also occur in the candidate title.
func titleOverlap(query, candidate string) float64 {
	qWords := contentWords(query)
	if len(qWords) == 0 {
		return 0
	}
	cWords := contentWords(candidate)
	hits := 0
	for w := range qWords {
		if _, ok := cWords[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(qWords))
}

func contentWords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if _, stop := overlapStopWords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	return out
}

// containsEither reports whether either title contains the other, which
// catches subtitle truncations that defeat word overlap.
func containsEither(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// stripJATS removes the JATS XML tags CrossRef wraps abstracts in.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CrossRef API JSON structures.
type crossrefSearchResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	URL            string   `json:"URL"`
	Abstract       string   `json:"abstract"`
}
