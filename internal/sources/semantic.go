// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sshoc-nl/pubenrich/internal/httputil"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,externalIds,venue,url"

// SemanticScholarAdapter queries the Semantic Scholar Graph API. The API
// rate-limits aggressively without a key, so requests go through the 429
// retry helper.
type SemanticScholarAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *SemanticScholarAdapter) Name() string { return "semantic_scholar" }

// Search queries Semantic Scholar by title and first author.
func (a *SemanticScholarAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	q := titleQuery(title, 10)
	if fa := firstAuthor(authors); fa != "" {
		q += " " + fa
	}

	params := url.Values{
		"query":  {q},
		"limit":  {"5"},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	if a.Config.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", a.Config.SemanticScholarAPIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 2)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	for _, paper := range sr.Data {
		if paper.Abstract == "" {
			continue
		}
		if titleOverlap(title, paper.Title) < crossrefOverlapFloor {
			continue
		}

		r := types.SourceResult{
			URL:        paper.URL,
			Title:      paper.Title,
			Abstract:   paper.Abstract,
			DOI:        paper.ExternalIDs.DOI,
			ArxivID:    paper.ExternalIDs.ArXiv,
			Journal:    paper.Venue,
			Confidence: 0.8,
			Method:     "semantic_scholar_api",
		}
		if r.URL == "" && r.DOI != "" {
			r.URL = "https://doi.org/" + r.DOI
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Venue       string              `json:"venue"`
	URL         string              `json:"url"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
