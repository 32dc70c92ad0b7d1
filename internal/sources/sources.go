// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources locates a publication's abstract online through an
// ordered cascade of academic source adapters. Adapters are tried in
// reliability order with a fixed pacing delay each; the cascade exits
// early once a substantial abstract is found and otherwise returns the
// best result seen. Individual adapter failures are logged and skipped,
// never propagated.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/textqual"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// ErrNoResult is returned by an adapter that completed its query but
// found nothing for the publication. The cascade treats it the same as a
// failure: skip and continue.
var ErrNoResult = errors.New("no result")

// Adapter queries a single external source for a publication. An adapter
// must confine failure to its own error return; the cascade never aborts
// on adapter errors.
type Adapter interface {
	Name() string
	Search(ctx context.Context, title, authors string) (types.SourceResult, error)
}

// entry pairs an adapter with its priority tier (1 = highest reliability)
// and its pacing delay.
type entry struct {
	adapter Adapter
	tier    int
	delay   time.Duration
}

// Cascade executes adapters in priority order. It is single-threaded by
// design: early exit only saves work when later adapters are not started
// speculatively, and rate-limit etiquette wants paced, serialized calls.
type Cascade struct {
	entries   []entry
	extractor *Extractor
	cfg       types.CascadeConfig
	w         io.Writer
}

// NewCascade builds the default adapter ordering: tier 1 holds the
// reliable structured APIs, tier 2 the preprint/aggregator services, and
// tier 3 the scrape-based general search tried last.
func NewCascade(client *http.Client, cfg types.CascadeConfig, w io.Writer) *Cascade {
	c := &Cascade{
		cfg: cfg,
		w:   w,
	}
	if cfg.DeepExtraction {
		c.extractor = NewExtractor(client, cfg)
	}

	add := func(a Adapter, tier int, delay time.Duration) {
		c.entries = append(c.entries, entry{adapter: a, tier: tier, delay: delay})
	}

	add(&CrossRefAdapter{Client: client, Config: cfg}, 1, cfg.AdapterDelay)
	add(&OpenAlexAdapter{Client: client, Config: cfg}, 1, cfg.AdapterDelay)
	add(&EuropePMCAdapter{Client: client, Config: cfg}, 1, cfg.AdapterDelay)
	add(&SemanticScholarAdapter{Client: client, Config: cfg}, 1, cfg.AdapterDelay)
	add(&ArxivAdapter{Client: client, Config: cfg}, 2, cfg.AdapterDelay)
	if cfg.COREAPIKey != "" {
		add(&COREAdapter{Client: client, Config: cfg}, 2, cfg.AdapterDelay)
	}
	add(&ScholarAdapter{Client: client, Config: cfg}, 3, cfg.ScholarDelay)

	return c
}

// Adapters returns the adapter names in cascade order.
func (c *Cascade) Adapters() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.adapter.Name()
	}
	return names
}

// FindBest runs the cascade for one publication. It returns the first
// result whose abstract exceeds the substantial-length threshold, or the
// longest acceptable abstract seen across all adapters. When every
// adapter comes up empty the canonical not-found result is returned;
// callers proceed with degraded data rather than treating it as an error.
func (c *Cascade) FindBest(ctx context.Context, title, authors string) types.SourceResult {
	var best types.SourceResult
	bestLen := 0

	for _, e := range c.entries {
		if e.delay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(c.w, "warning: cascade cancelled: %v\n", ctx.Err())
				return c.finish(best, bestLen, title)
			case <-time.After(e.delay):
			}
		}

		result, err := e.adapter.Search(ctx, title, authors)
		if err != nil {
			if errors.Is(err, ErrNoResult) {
				fmt.Fprintf(c.w, "  %s: no abstract\n", e.adapter.Name())
			} else {
				fmt.Fprintf(c.w, "warning: %s failed: %v\n", e.adapter.Name(), err)
			}
			continue
		}
		if result.Abstract == "" {
			fmt.Fprintf(c.w, "  %s: no abstract\n", e.adapter.Name())
			continue
		}

		// The search-index snippet is usually worse than the full page:
		// when the result carries a URL, try a deep extraction pass and
		// adopt its abstract if strictly longer.
		if c.extractor != nil && result.URL != "" {
			if page, err := c.extractor.Extract(ctx, result.URL); err == nil {
				if len(page.Abstract) > len(result.Abstract) && textqual.IsSafeToProcess(page.Abstract) {
					result.Abstract = page.Abstract
					fmt.Fprintf(c.w, "  %s: abstract enhanced by page extraction (%d chars)\n",
						e.adapter.Name(), len(page.Abstract))
				}
				mergePageMetadata(&result, page)
			} else {
				fmt.Fprintf(c.w, "  %s: page extraction failed: %v\n", e.adapter.Name(), err)
			}
		}

		if !textqual.IsSafeToProcess(result.Abstract) || !textqual.IsReadable(result.Abstract) {
			fmt.Fprintf(c.w, "  %s: abstract rejected by quality filter\n", e.adapter.Name())
			continue
		}

		if len(result.Abstract) > bestLen {
			best = result
			bestLen = len(result.Abstract)
		}

		if len(result.Abstract) > c.cfg.SubstantialAbstractLen {
			fmt.Fprintf(c.w, "  %s: substantial abstract (%d chars), stopping\n",
				e.adapter.Name(), len(result.Abstract))
			return result
		}
	}

	return c.finish(best, bestLen, title)
}

func (c *Cascade) finish(best types.SourceResult, bestLen int, title string) types.SourceResult {
	if bestLen > 0 {
		fmt.Fprintf(c.w, "  using best result from %s (%d chars)\n", best.Method, bestLen)
		return best
	}
	fmt.Fprintf(c.w, "  no abstract found in any source\n")
	return types.NotFoundResult(title)
}

// mergePageMetadata fills identifier and keyword fields of dst from a
// deep-extraction result without overwriting adapter-provided values.
func mergePageMetadata(dst *types.SourceResult, page PageContent) {
	if dst.DOI == "" && page.DOI != "" {
		dst.DOI = page.DOI
	}
	if dst.PMID == "" && page.PMID != "" {
		dst.PMID = page.PMID
	}
	if dst.ArxivID == "" && page.ArxivID != "" {
		dst.ArxivID = page.ArxivID
	}
	if dst.Handle == "" && page.Handle != "" {
		dst.Handle = page.Handle
	}
	if len(dst.ExplicitKeywords) == 0 && len(page.Keywords) > 0 {
		dst.ExplicitKeywords = page.Keywords
	}
	if dst.Journal == "" && page.Journal != "" {
		dst.Journal = page.Journal
	}
}

// firstAuthor extracts the leading author from a free-form citation
// string: "Dijkstra, A. & van Wissen, L." yields "Dijkstra".
func firstAuthor(authors string) string {
	s := authors
	if i := strings.IndexAny(s, ",&;"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// titleQuery truncates a title to its first n words for query building.
func titleQuery(title string, n int) string {
	words := strings.Fields(title)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
