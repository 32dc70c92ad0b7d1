// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexAdapter queries the OpenAlex API. OpenAlex stores abstracts as
// an inverted index which is reconstructed to plain text.
type OpenAlexAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *OpenAlexAdapter) Name() string { return "openalex" }

// Search queries OpenAlex by title and first author and returns the top
// relevance-ranked work that carries an abstract.
func (a *OpenAlexAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	search := titleQuery(title, 12)
	if fa := firstAuthor(authors); fa != "" {
		search += " " + fa
	}

	params := url.Values{
		"search":   {search},
		"per_page": {"5"},
		"page":     {"1"},
	}
	if a.Config.OpenAlexEmail != "" {
		params.Set("mailto", a.Config.OpenAlexEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	for _, work := range oar.Results {
		abstract := reconstructAbstract(work.AbstractInvertedIndex)
		if abstract == "" {
			continue
		}
		if titleOverlap(title, work.Title) < crossrefOverlapFloor {
			continue
		}

		r := types.SourceResult{
			Title:      work.Title,
			Abstract:   abstract,
			Confidence: 0.85,
			Method:     "openalex_api",
		}
		// Strip the https://doi.org/ prefix to get the bare DOI.
		if work.DOI != "" {
			r.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
			r.URL = work.DOI
		} else if work.OpenAccess.OAURL != "" {
			r.URL = work.OpenAccess.OAURL
		} else {
			r.URL = work.ID
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string             `json:"id"`
	Title                 string             `json:"title"`
	DOI                   string             `json:"doi"`
	AbstractInvertedIndex map[string][]int   `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess `json:"open_access"`
}

type openAlexOpenAccess struct {
	IsOA   bool   `json:"is_oa"`
	OAURL  string `json:"oa_url"`
	Status string `json:"oa_status"`
}
