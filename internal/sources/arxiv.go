// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// arxivAPIBase is the arXiv Atom query endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv Atom API. Social-science publications
// rarely land on arXiv, so it sits in tier 2.
type ArxivAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *ArxivAdapter) Name() string { return "arxiv" }

// Search queries arXiv by title words and returns the first entry whose
// title matches the publication.
func (a *ArxivAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	params := url.Values{
		"search_query": {"ti:" + fmt.Sprintf("%q", titleQuery(title, 8))},
		"start":        {"0"},
		"max_results":  {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	for _, entry := range feed.Entries {
		entryTitle := strings.Join(strings.Fields(entry.Title), " ")
		abstract := strings.TrimSpace(entry.Summary)
		if abstract == "" {
			continue
		}
		if titleOverlap(title, entryTitle) < crossrefOverlapFloor {
			continue
		}

		r := types.SourceResult{
			URL:        entry.ID,
			Title:      entryTitle,
			Abstract:   abstract,
			Confidence: 0.8,
			Method:     "arxiv_api",
		}
		// The entry ID is the abs URL: extract the bare arXiv ID.
		if i := strings.LastIndex(entry.ID, "/abs/"); i >= 0 {
			r.ArxivID = entry.ID[i+len("/abs/"):]
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}
