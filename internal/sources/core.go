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

// coreAPIBase is the CORE v3 works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreAPIBase = "https://api.core.ac.uk/v3/search/works"

// COREAdapter queries the CORE open-access aggregator. Only enabled when
// an API key is configured.
type COREAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *COREAdapter) Name() string { return "core" }

// Search queries CORE by title and returns the first matching work with
// an abstract.
func (a *COREAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	params := url.Values{
		"q":     {fmt.Sprintf("title:%q", titleQuery(title, 10))},
		"limit": {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coreAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("Authorization", "Bearer "+a.Config.COREAPIKey)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 2)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("CORE API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("CORE API returned HTTP %d", resp.StatusCode)
	}

	var cr coreResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing CORE response: %w", err)
	}

	for _, work := range cr.Results {
		if work.Abstract == "" {
			continue
		}
		if titleOverlap(title, work.Title) < crossrefOverlapFloor {
			continue
		}

		r := types.SourceResult{
			URL:        work.DownloadURL,
			Title:      work.Title,
			Abstract:   work.Abstract,
			DOI:        work.DOI,
			Confidence: 0.7,
			Method:     "core_api",
		}
		if r.URL == "" && r.DOI != "" {
			r.URL = "https://doi.org/" + r.DOI
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// CORE API JSON structures.
type coreResponse struct {
	Results []coreWork `json:"results"`
}

type coreWork struct {
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	DOI         string `json:"doi"`
	DownloadURL string `json:"downloadUrl"`
}
