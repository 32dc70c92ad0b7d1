// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the enrichment stages for one
// publication: abstract search, keyword generation and ranking, and
// concept mapping, checkpointed through the persistent caches so a
// killed run loses at most the in-flight publication.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/internal/concepts"
	"github.com/sshoc-nl/pubenrich/internal/keywords"
	"github.com/sshoc-nl/pubenrich/internal/sources"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// abstractFinder is what the enricher needs from the source cascade.
type abstractFinder interface {
	FindBest(ctx context.Context, title, authors string) types.SourceResult
}

// Enricher runs the per-publication pipeline. It is single-threaded:
// stages run sequentially with blocking I/O, and the caches are owned by
// this instance alone.
type Enricher struct {
	cascade  abstractFinder
	resolver *concepts.Resolver
	content  *cache.Cache[types.ContentRecord]
	w        io.Writer
}

// Caches bundles the persistent stores the pipeline checkpoints through.
type Caches struct {
	Content  *cache.Cache[types.ContentRecord]
	Mappings *cache.Cache[types.ConceptMapping]
	Index    *concepts.Index
}

// LoadCaches opens the pipeline caches under dir.
func LoadCaches(dir string, w io.Writer) Caches {
	return Caches{
		Content:  cache.Load[types.ContentRecord](dir+"/content_enrichment.json", w),
		Mappings: cache.Load[types.ConceptMapping](dir+"/concept_mappings.json", w),
		Index:    concepts.LoadIndex(dir+"/keyword_index.json", w),
	}
}

// Flush persists every cache, reporting the first error after trying all.
func (c Caches) Flush() error {
	var firstErr error
	for _, f := range []func() error{c.Content.Flush, c.Mappings.Flush, c.Index.Flush} {
		if err := f(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewEnricher wires the pipeline stages. client carries the configured
// timeout; cfg supplies stage thresholds.
func NewEnricher(client *http.Client, cfg types.PipelineConfig, caches Caches, w io.Writer) *Enricher {
	return &Enricher{
		cascade:  sources.NewCascade(client, cfg.Cascade, w),
		resolver: concepts.NewResolver(caches.Index, caches.Mappings, client, cfg.Concepts, w),
		content:  caches.Content,
		w:        w,
	}
}

// Enrich produces the enriched content record for one publication,
// reusing the cached record when the same title and authors were
// processed before. The record is cached and the cache flushed before
// returning, so completed work survives a later crash.
func (e *Enricher) Enrich(ctx context.Context, pub types.Publication) (types.ContentRecord, error) {
	key := cache.Key(pub.Title, pub.Authors)
	if rec, ok := e.content.Get(key); ok {
		fmt.Fprintf(e.w, "  using cached content for %q\n", pub.Title)
		return rec, nil
	}

	fmt.Fprintf(e.w, "enriching %q\n", pub.Title)
	result := e.cascade.FindBest(ctx, pub.Title, pub.Authors)

	generated := keywords.Generate(result.Abstract, pub.Title)
	primary, secondary := keywords.Rank(result.ExplicitKeywords, generated, pub.Title, result.Abstract)

	rec := types.ContentRecord{
		PublicationTitle:   pub.Title,
		PublicationAuthors: pub.Authors,
		PublicationURI:     pub.URI,
		FoundURL:           result.URL,
		FoundTitle:         result.Title,
		Abstract:           result.Abstract,
		DOI:                result.DOI,
		Journal:            result.Journal,
		PMID:               result.PMID,
		ArxivID:            result.ArxivID,
		Handle:             result.Handle,
		ExplicitKeywords:   result.ExplicitKeywords,
		GeneratedKeywords:  generated,
		PrimaryKeywords:    primary,
		SecondaryKeywords:  secondary,
		Confidence:         result.Confidence,
		Method:             result.Method,
		Timestamp:          time.Now().UTC(),
	}

	e.content.Put(key, rec)
	if err := e.content.Flush(); err != nil {
		// Persistence failure degrades to in-memory results; the record is
		// still returned to the caller.
		fmt.Fprintf(e.w, "warning: could not persist content cache: %v\n", err)
	}
	return rec, nil
}

// MapConcepts resolves the record's ranked keywords onto ELSST concepts
// and persists the mapping.
func (e *Enricher) MapConcepts(ctx context.Context, rec types.ContentRecord) types.ConceptMapping {
	m := e.resolver.MapKeywords(ctx, rec.Keywords(), rec.PublicationTitle, rec.Abstract)
	if err := e.resolver.Flush(); err != nil {
		fmt.Fprintf(e.w, "warning: could not persist concept caches: %v\n", err)
	}
	return m
}
