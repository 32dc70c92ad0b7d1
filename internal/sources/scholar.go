// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sshoc-nl/pubenrich/internal/textqual"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// scholarSearchBase is the Google Scholar search URL. Declared as a var
// so tests can substitute an httptest server.
var scholarSearchBase = "https://scholar.google.com/scholar"

// scholarMinSnippetLen filters out the one-line snippets Scholar shows
// for results it has no abstract text for.
const scholarMinSnippetLen = 50

// ScholarAdapter scrapes the Google Scholar result page. It is the least
// reliable source and runs last, with the longest pacing delay.
type ScholarAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *ScholarAdapter) Name() string { return "google_scholar" }

// Search fetches the Scholar result page for a quoted title plus first
// author and extracts the first result's title, link, and snippet.
func (a *ScholarAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	query := fmt.Sprintf("%q", titleQuery(title, 10))
	if fa := firstAuthor(authors); fa != "" {
		query += fmt.Sprintf(" %q", fa)
	}

	params := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scholarSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("Scholar returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing Scholar page: %w", err)
	}

	var result types.SourceResult
	doc.Find("div.gs_r.gs_or.gs_scl").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		resultTitle := strings.TrimSpace(sel.Find("h3.gs_rt").Text())
		snippet := strings.TrimSpace(sel.Find("div.gs_rs").Text())
		if resultTitle == "" || len(snippet) < scholarMinSnippetLen {
			return true
		}
		if !textqual.IsReadable(snippet) {
			return true
		}

		result = types.SourceResult{
			Title:      resultTitle,
			Abstract:   snippet,
			Confidence: 0.6,
			Method:     "google_scholar_scrape",
		}
		if href, ok := sel.Find("h3.gs_rt a").Attr("href"); ok {
			result.URL = href
		}
		return false
	})

	if result.Abstract == "" {
		return types.SourceResult{}, ErrNoResult
	}
	return result, nil
}
