// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package concepts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// Confidence levels of the matching paths and the tier boundaries.
const (
	directConfidence = 1.0
	aliasConfidence  = 0.8
)

// Resolver maps keyword sets onto ELSST concepts. Results are cached by
// keyword set + title; individual keywords are additionally memoized in
// the fast-path Index so repeat keywords across publications skip the
// matching work.
type Resolver struct {
	index  *Index
	cache  *cache.Cache[types.ConceptMapping]
	client *http.Client
	cfg    types.ConceptConfig
	w      io.Writer

	// matchCalls counts slow-path resolutions, observable in tests to
	// verify the index fast path short-circuits.
	matchCalls int
}

// NewResolver builds a Resolver over the given index and mapping cache.
// client is only used when cfg.EnableAPISearch is set.
func NewResolver(index *Index, mc *cache.Cache[types.ConceptMapping], client *http.Client, cfg types.ConceptConfig, w io.Writer) *Resolver {
	return &Resolver{index: index, cache: mc, client: client, cfg: cfg, w: w}
}

// MapKeywords resolves a keyword set against the vocabulary and returns
// the cached or freshly computed mapping. A mapping with no concepts is
// not an error: it carries the no-matches method marker so callers can
// tell "tried and found nothing" from "never tried".
func (r *Resolver) MapKeywords(ctx context.Context, keywords []string, title, abstract string) types.ConceptMapping {
	key := cache.Key(strings.Join(keywords, " "), title)
	if m, ok := r.cache.Get(key); ok {
		fmt.Fprintf(r.w, "  using cached concept mapping\n")
		return m
	}

	primary, secondary := r.Resolve(ctx, keywords, title, abstract)

	m := types.ConceptMapping{
		PublicationTitle: title,
		Keywords:         keywords,
		Primary:          primary,
		Secondary:        secondary,
		TotalFound:       len(primary) + len(secondary),
		Timestamp:        time.Now().UTC(),
	}
	if m.TotalFound > 0 {
		var sum float64
		for _, c := range m.Concepts() {
			sum += c.Confidence
		}
		m.Confidence = sum / float64(m.TotalFound)
		m.Method = types.MappingVocabulary
	} else {
		m.Method = types.MappingNoMatches
	}

	r.cache.Put(key, m)
	return m
}

// Flush persists the mapping cache and the fast-path index, reporting
// the first error after trying both.
func (r *Resolver) Flush() error {
	err := r.cache.Flush()
	if ierr := r.index.Flush(); ierr != nil && err == nil {
		err = ierr
	}
	return err
}

// Resolve produces ranked concept matches for a keyword set. Keywords
// with an index hit are materialized directly; the remainder go through
// vocabulary matching, similarity scoring over the full context, and the
// optional API fallback. Concepts are deduplicated by URI and
// partitioned into primary and secondary confidence tiers.
func (r *Resolver) Resolve(ctx context.Context, keywords []string, title, abstract string) (primary, secondary []types.Concept) {
	var found []types.Concept
	var remaining []string

	for _, kw := range keywords {
		if e, ok := r.index.Lookup(kw); ok {
			found = append(found, types.Concept{
				URI:              e.URI,
				PreferredLabel:   e.PreferredLabel,
				Confidence:       e.Confidence,
				MatchingKeywords: []string{kw},
			})
			continue
		}
		remaining = append(remaining, kw)
	}

	if len(remaining) > 0 {
		resolved := r.matchKeywords(ctx, remaining, title, abstract)
		found = append(found, resolved...)

		// Index every keyword that resolved the slow way. A keyword is
		// indexed under its best-confidence concept.
		for _, kw := range remaining {
			if c, ok := bestConceptFor(resolved, kw); ok {
				r.index.Update(kw, c)
			}
		}
	}

	unique := dedupeByURI(found)
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})

	for _, c := range unique {
		switch {
		case c.Confidence >= r.cfg.PrimaryThreshold:
			primary = append(primary, c)
		case c.Confidence >= r.cfg.SecondaryThreshold:
			secondary = append(secondary, c)
		}
	}
	return primary, secondary
}

// matchKeywords is the slow path: vocabulary lookup per keyword, one
// similarity pass over the whole context, and the API fallback for
// keywords still unmatched.
func (r *Resolver) matchKeywords(ctx context.Context, keywords []string, title, abstract string) []types.Concept {
	r.matchCalls++

	var found []types.Concept
	matched := make(map[string]bool)

	for _, kw := range keywords {
		if c, ok := lookupVocabulary(kw); ok {
			found = append(found, c)
			matched[kw] = true
		}
	}

	if abstract != "" {
		for _, se := range similarityMatches(keywords, title, abstract, r.cfg.SimilarityThreshold) {
			// The whole context drove a similarity match, so every input
			// keyword is recorded as contributing.
			found = append(found, se.entry.concept(se.score, keywords...))
		}
	}

	if r.cfg.EnableAPISearch && r.client != nil {
		for _, kw := range keywords {
			if matched[kw] {
				continue
			}
			cs, err := r.searchAPI(ctx, kw)
			if err != nil {
				fmt.Fprintf(r.w, "warning: ELSST API search for %q failed: %v\n", kw, err)
				continue
			}
			found = append(found, cs...)
		}
	}

	return found
}

// dedupeByURI merges concepts sharing a URI: the higher-confidence copy
// wins and matching keywords are unioned. First-seen order is preserved.
func dedupeByURI(concepts []types.Concept) []types.Concept {
	byURI := make(map[string]int)
	var out []types.Concept

	for _, c := range concepts {
		i, seen := byURI[c.URI]
		if !seen {
			byURI[c.URI] = len(out)
			out = append(out, c)
			continue
		}
		if c.Confidence > out[i].Confidence {
			kws := out[i].MatchingKeywords
			out[i] = c
			out[i].MatchingKeywords = unionKeywords(c.MatchingKeywords, kws)
		} else {
			out[i].MatchingKeywords = unionKeywords(out[i].MatchingKeywords, c.MatchingKeywords)
		}
	}
	return out
}

func unionKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, kw := range a {
		seen[strings.ToLower(kw)] = struct{}{}
	}
	for _, kw := range b {
		if _, dup := seen[strings.ToLower(kw)]; dup {
			continue
		}
		seen[strings.ToLower(kw)] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// bestConceptFor finds the highest-confidence concept that lists kw
// among its matching keywords.
func bestConceptFor(concepts []types.Concept, kw string) (types.Concept, bool) {
	var best types.Concept
	ok := false
	for _, c := range concepts {
		for _, m := range c.MatchingKeywords {
			if strings.EqualFold(m, kw) && (!ok || c.Confidence > best.Confidence) {
				best = c
				ok = true
			}
		}
	}
	return best, ok
}

// RebuildIndex reconstructs the fast-path index from an existing mapping
// cache: every concept's matching keywords are re-indexed, primary
// concepts taking precedence over secondary ones. Returns the number of
// keywords indexed.
func RebuildIndex(index *Index, mc *cache.Cache[types.ConceptMapping]) int {
	keys := mc.Keys()
	sort.Strings(keys)

	indexed := make(map[string]float64)
	for _, key := range keys {
		m, _ := mc.Get(key)
		for _, c := range m.Secondary {
			indexConcept(index, indexed, c)
		}
	}
	// Second pass: primary concepts overwrite whatever secondary put in.
	for _, key := range keys {
		m, _ := mc.Get(key)
		for _, c := range m.Primary {
			indexConcept(index, indexed, c)
		}
	}
	return len(indexed)
}

func indexConcept(index *Index, indexed map[string]float64, c types.Concept) {
	for _, kw := range c.MatchingKeywords {
		norm := normalizeKeyword(kw)
		if norm == "" {
			continue
		}
		if prev, seen := indexed[norm]; seen && prev >= c.Confidence {
			continue
		}
		indexed[norm] = c.Confidence
		index.Update(kw, c)
	}
}
