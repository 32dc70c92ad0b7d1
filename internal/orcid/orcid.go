// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid resolves free-form author names to ORCID iDs through the
// public expanded-search API. Resolution is a single source, not a
// cascade: one search, the top candidates checked for a family-name
// match, the best match cached.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// orcidAPIBase is the ORCID public expanded-search endpoint. Declared as
// a var so tests can substitute an httptest server.
var orcidAPIBase = "https://pub.orcid.org/v3.0/expanded-search/"

// maxCandidates bounds how many search results are considered.
const maxCandidates = 3

// Candidate acceptance confidences. A family-name match is required in
// all cases; the given name decides between the two levels.
const (
	exactMatchConfidence   = 0.9
	initialMatchConfidence = 0.7
)

const methodExpandedSearch = "orcid_expanded_search"

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Resolver looks up authors in the ORCID registry, memoizing results in
// a persistent cache.
type Resolver struct {
	cache  *cache.Cache[types.AuthorRecord]
	client *http.Client
	cfg    types.ORCIDConfig
	w      io.Writer
}

// NewResolver builds a Resolver over the given author cache.
func NewResolver(c *cache.Cache[types.AuthorRecord], client *http.Client, cfg types.ORCIDConfig, w io.Writer) *Resolver {
	return &Resolver{cache: c, client: client, cfg: cfg, w: w}
}

// Resolve returns the ORCID record for one author name. A search that
// runs but finds no acceptable candidate yields a record with the
// not-found method marker; network failure does the same but is logged,
// and the degraded record is not cached so a later run can retry.
func (r *Resolver) Resolve(ctx context.Context, fullName string) types.AuthorRecord {
	key := cache.Key(fullName)
	if rec, ok := r.cache.Get(key); ok {
		fmt.Fprintf(r.w, "  using cached ORCID record for %s\n", fullName)
		return rec
	}

	given, family := ParseName(fullName)
	rec := types.AuthorRecord{
		FullName:   fullName,
		GivenName:  given,
		FamilyName: family,
		Method:     types.MethodNotFound,
		Timestamp:  time.Now().UTC(),
	}

	candidates, err := r.search(ctx, fullName)
	if err != nil {
		fmt.Fprintf(r.w, "warning: ORCID search for %s failed: %v\n", fullName, err)
		return rec
	}

	for i, cand := range candidates {
		if i == maxCandidates {
			break
		}
		confidence, ok := matchConfidence(given, family, cand)
		if !ok {
			continue
		}
		rec.ORCID = "https://orcid.org/" + cand.ORCIDID
		rec.Confidence = confidence
		rec.Method = methodExpandedSearch
		if rec.GivenName == "" {
			rec.GivenName = cand.GivenNames
		}
		fmt.Fprintf(r.w, "  found ORCID %s for %s (confidence %.1f)\n", cand.ORCIDID, fullName, confidence)
		break
	}

	r.cache.Put(key, rec)
	return rec
}

// ResolveAll resolves every author parsed from a citation-style string,
// pacing requests one second apart.
func (r *Resolver) ResolveAll(ctx context.Context, authors string) []types.AuthorRecord {
	names := SplitAuthors(authors)
	out := make([]types.AuthorRecord, 0, len(names))
	for i, name := range names {
		if i > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(time.Second):
			}
		}
		out = append(out, r.Resolve(ctx, name))
	}
	return out
}

// Flush persists the author cache.
func (r *Resolver) Flush() error { return r.cache.Flush() }

func (r *Resolver) search(ctx context.Context, fullName string) ([]orcidCandidate, error) {
	cleaned := strings.TrimSpace(nonWordPattern.ReplaceAllString(fullName, ""))
	params := url.Values{
		"q":    {"given-and-family-names:" + cleaned},
		"rows": {fmt.Sprint(maxCandidates)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, orcidAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ORCID API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ORCID API returned HTTP %d", resp.StatusCode)
	}

	var sr orcidSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ORCID response: %w", err)
	}
	return sr.ExpandedResult, nil
}

// matchConfidence scores a candidate against the parsed author name. The
// family name must match; an exact given-name match scores higher than a
// first-initial match.
func matchConfidence(given, family string, cand orcidCandidate) (float64, bool) {
	if !strings.EqualFold(strings.TrimSpace(cand.FamilyNames), family) {
		return 0, false
	}
	candGiven := strings.TrimSpace(cand.GivenNames)
	if given == "" || candGiven == "" {
		return initialMatchConfidence, true
	}
	if strings.EqualFold(candGiven, given) {
		return exactMatchConfidence, true
	}
	gi := firstLetter(given)
	if gi != 0 && gi == firstLetter(candGiven) {
		return initialMatchConfidence, true
	}
	return 0, false
}

func firstLetter(s string) rune {
	for _, r := range strings.ToLower(s) {
		return r
	}
	return 0
}

// ParseName splits a full name into given and family parts. The last
// word is the family name; a single-word name is all family name.
func ParseName(fullName string) (given, family string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// SplitAuthors parses a citation-style author string into individual
// names. The expected shape is "Last, First, First2 Last2 & First3
// Last3": only the lead author is inverted, the final author follows an
// ampersand.
func SplitAuthors(authors string) []string {
	authors = strings.TrimSpace(authors)
	if authors == "" {
		return nil
	}

	var names []string
	main := authors
	var tail string
	if i := strings.LastIndex(authors, " & "); i >= 0 {
		main = strings.TrimSpace(authors[:i])
		tail = strings.TrimSpace(authors[i+3:])
	}

	parts := strings.Split(main, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
		names = append(names, parts[1]+" "+parts[0])
		for _, p := range parts[2:] {
			if p != "" {
				names = append(names, p)
			}
		}
	} else if parts[0] != "" {
		names = append(names, parts[0])
	}
	if tail != "" {
		names = append(names, tail)
	}

	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ORCID expanded-search JSON structures.
type orcidSearchResponse struct {
	ExpandedResult []orcidCandidate `json:"expanded-result"`
}

type orcidCandidate struct {
	ORCIDID     string `json:"orcid-id"`
	GivenNames  string `json:"given-names"`
	FamilyNames string `json:"family-names"`
}
