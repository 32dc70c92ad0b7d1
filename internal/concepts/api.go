// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package concepts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// elsstAPIBase is the ELSST Skosmos REST search endpoint. Declared as a
// var so tests can substitute an httptest server.
var elsstAPIBase = "https://thesauri.cessda.eu/rest/v1/elsst-5/search"

// apiMatchConfidence is assigned to concepts found through the live
// thesaurus search. Below the exact-match and alias confidences: a label
// hit in the full thesaurus is weaker evidence than a curated mapping.
const apiMatchConfidence = 0.75

// searchAPI queries the live ELSST thesaurus for keywords the built-in
// vocabulary could not place. Failures are tolerated in cascade style:
// any error returns no matches and the caller logs and moves on.
func (r *Resolver) searchAPI(ctx context.Context, keyword string) ([]types.Concept, error) {
	params := url.Values{
		"query":  {keyword},
		"lang":   {"en"},
		"unique": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, elsstAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ELSST API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ELSST API returned HTTP %d", resp.StatusCode)
	}

	var sr skosmosSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ELSST response: %w", err)
	}

	var out []types.Concept
	for _, res := range sr.Results {
		if res.URI == "" || res.PrefLabel == "" {
			continue
		}
		out = append(out, types.Concept{
			URI:               res.URI,
			PreferredLabel:    res.PrefLabel,
			AlternativeLabels: res.AltLabels,
			Confidence:        apiMatchConfidence,
			MatchingKeywords:  []string{keyword},
		})
		if len(out) == 3 {
			break
		}
	}
	return out, nil
}

// Skosmos search API JSON structures.
type skosmosSearchResponse struct {
	Results []skosmosResult `json:"results"`
}

type skosmosResult struct {
	URI       string   `json:"uri"`
	PrefLabel string   `json:"prefLabel"`
	AltLabels []string `json:"altLabel"`
}
