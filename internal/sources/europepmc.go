// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// europePMCSearchBase is the Europe PMC REST search endpoint. Declared as
// a var so tests can substitute an httptest server.
var europePMCSearchBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// EuropePMCAdapter queries the Europe PMC REST API, which has strong
// coverage of European and Dutch social-science research.
type EuropePMCAdapter struct {
	Client *http.Client
	Config types.CascadeConfig
}

// Name returns the adapter identifier.
func (a *EuropePMCAdapter) Name() string { return "europepmc" }

// Search queries Europe PMC by title phrase and first author.
func (a *EuropePMCAdapter) Search(ctx context.Context, title, authors string) (types.SourceResult, error) {
	query := fmt.Sprintf("TITLE:%q", titleQuery(title, 10))
	if fa := firstAuthor(authors); fa != "" {
		query += fmt.Sprintf(" AND AUTH:%q", fa)
	}

	params := url.Values{
		"query":      {query},
		"format":     {"json"},
		"resultType": {"core"},
		"pageSize":   {"5"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, europePMCSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("Europe PMC returned HTTP %d", resp.StatusCode)
	}

	var er europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing Europe PMC response: %w", err)
	}

	for _, hit := range er.ResultList.Result {
		if hit.AbstractText == "" {
			continue
		}
		if titleOverlap(title, hit.Title) < crossrefOverlapFloor {
			continue
		}

		r := types.SourceResult{
			Title:      hit.Title,
			Abstract:   hit.AbstractText,
			DOI:        hit.DOI,
			PMID:       hit.PMID,
			Journal:    hit.JournalInfo.Journal.Title,
			Confidence: 0.85,
			Method:     "europepmc_api",
		}
		if hit.DOI != "" {
			r.URL = "https://doi.org/" + hit.DOI
		} else if hit.PMID != "" {
			r.URL = "https://europepmc.org/abstract/MED/" + hit.PMID
		}
		return r, nil
	}

	return types.SourceResult{}, ErrNoResult
}

// Europe PMC API JSON structures.
type europePMCResponse struct {
	ResultList europePMCResultList `json:"resultList"`
}

type europePMCResultList struct {
	Result []europePMCResult `json:"result"`
}

type europePMCResult struct {
	PMID         string               `json:"pmid"`
	DOI          string               `json:"doi"`
	Title        string               `json:"title"`
	AbstractText string               `json:"abstractText"`
	JournalInfo  europePMCJournalInfo `json:"journalInfo"`
}

type europePMCJournalInfo struct {
	Journal europePMCJournal `json:"journal"`
}

type europePMCJournal struct {
	Title string `json:"title"`
}
