// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/concepts"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// fakeFinder returns canned results keyed by title and counts lookups.
type fakeFinder struct {
	results map[string]types.SourceResult
	calls   int
}

func (f *fakeFinder) FindBest(_ context.Context, title, _ string) types.SourceResult {
	f.calls++
	if r, ok := f.results[title]; ok {
		return r
	}
	return types.NotFoundResult(title)
}

func testEnricher(t *testing.T, finder *fakeFinder) *Enricher {
	t.Helper()
	caches := LoadCaches(t.TempDir(), io.Discard)
	cfg := types.PipelineConfig{}
	cfg.Defaults()
	return &Enricher{
		cascade:  finder,
		resolver: concepts.NewResolver(caches.Index, caches.Mappings, nil, cfg.Concepts, io.Discard),
		content:  caches.Content,
		w:        io.Discard,
	}
}

const testAbstract = "This study examines how cultural diversity within firms relates to " +
	"innovation outcomes, using linked employer data for the Netherlands. Diversity " +
	"measures are combined with patent counts to estimate innovation effects."

func TestEnrichBuildsRecord(t *testing.T) {
	finder := &fakeFinder{results: map[string]types.SourceResult{
		"Cultural Diversity and Innovation in Dutch Firms": {
			URL:              "https://doi.org/10.1000/x",
			Title:            "Cultural Diversity and Innovation in Dutch Firms",
			Abstract:         testAbstract,
			DOI:              "10.1000/x",
			Journal:          "Journal of Economic Geography",
			Confidence:       0.95,
			Method:           "crossref_api",
			ExplicitKeywords: []string{"diversity", "innovation"},
		},
	}}
	e := testEnricher(t, finder)

	rec, err := e.Enrich(context.Background(), types.Publication{
		Title:   "Cultural Diversity and Innovation in Dutch Firms",
		Authors: "Ozgen, C., P. Nijkamp & J. Poot",
	})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if rec.Abstract != testAbstract || rec.DOI != "10.1000/x" {
		t.Errorf("record = %+v", rec)
	}
	// Explicit keywords appear in the title: 10 + 3 puts them in primary.
	for _, kw := range []string{"diversity", "innovation"} {
		if !containsString(rec.PrimaryKeywords, kw) {
			t.Errorf("PrimaryKeywords = %v, want %q", rec.PrimaryKeywords, kw)
		}
	}
	if len(rec.GeneratedKeywords) == 0 {
		t.Error("GeneratedKeywords is empty, want frequency-derived keywords")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestEnrichCacheIdempotence(t *testing.T) {
	finder := &fakeFinder{results: map[string]types.SourceResult{
		"Housing Careers": {Abstract: testAbstract, Method: "openalex_api", Confidence: 0.85},
	}}
	e := testEnricher(t, finder)

	pub := types.Publication{Title: "Housing Careers", Authors: "Dijkstra, A."}
	first, _ := e.Enrich(context.Background(), pub)
	if finder.calls != 1 {
		t.Fatalf("calls = %d after first enrich, want 1", finder.calls)
	}

	// Same semantic input, different case and spacing: must hit the cache
	// and perform no further source lookups.
	second, _ := e.Enrich(context.Background(), types.Publication{
		Title: "housing  careers", Authors: "DIJKSTRA, a.",
	})
	if finder.calls != 1 {
		t.Errorf("calls = %d after cached enrich, want 1", finder.calls)
	}
	if second.Abstract != first.Abstract || !second.Timestamp.Equal(first.Timestamp) {
		t.Error("cached record differs from original")
	}
}

func TestEnrichNotFoundIsNotAnError(t *testing.T) {
	e := testEnricher(t, &fakeFinder{})

	rec, err := e.Enrich(context.Background(), types.Publication{Title: "Unknown Work", Authors: "Nobody"})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if rec.Method != types.MethodNotFound || rec.Confidence != 0 {
		t.Errorf("record = %+v, want not-found marker with zero confidence", rec)
	}
	// Keyword generation falls back to the title when there is no abstract.
	if rec.Abstract != "" {
		t.Errorf("Abstract = %q, want empty", rec.Abstract)
	}
}

func TestMapConceptsFromRecord(t *testing.T) {
	e := testEnricher(t, &fakeFinder{})

	m := e.MapConcepts(context.Background(), types.ContentRecord{
		PublicationTitle: "Cultural Diversity and Innovation in Dutch Firms",
		PrimaryKeywords:  []string{"diversity", "innovation"},
		Abstract:         testAbstract,
	})

	if m.Method != types.MappingVocabulary {
		t.Fatalf("Method = %q, want %q", m.Method, types.MappingVocabulary)
	}
	labels := make([]string, 0, len(m.Primary))
	for _, c := range m.Primary {
		labels = append(labels, c.PreferredLabel)
	}
	for _, want := range []string{"CULTURAL DIVERSITY", "INNOVATION"} {
		if !containsString(labels, want) {
			t.Errorf("primary labels = %v, want %q", labels, want)
		}
	}
}

func TestRunBatch(t *testing.T) {
	finder := &fakeFinder{results: map[string]types.SourceResult{
		"Found Work": {Abstract: testAbstract, Method: "europepmc_api", Confidence: 0.85},
	}}
	e := testEnricher(t, finder)

	var log strings.Builder
	res := e.RunBatch(context.Background(), []types.Publication{
		{Title: "Found Work", Authors: "A"},
		{Title: "Missing Work", Authors: "B"},
	}, time.Millisecond, &log)

	if res.Processed != 2 || res.Found != 1 || res.NotFound != 1 || res.Failed != 0 {
		t.Errorf("result = %+v, want 2 processed, 1 found, 1 not found", res)
	}
	if !strings.Contains(log.String(), "batch complete") {
		t.Errorf("log = %q, want completion summary", log.String())
	}
}

func TestRunBatchCancellation(t *testing.T) {
	finder := &fakeFinder{results: map[string]types.SourceResult{}}
	e := testEnricher(t, finder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.RunBatch(ctx, []types.Publication{
		{Title: "One"}, {Title: "Two"}, {Title: "Three"},
	}, time.Hour, io.Discard)

	// The first publication runs (no delay before it); cancellation stops
	// the batch at the first inter-publication delay.
	if res.Processed != 1 {
		t.Errorf("Processed = %d, want 1", res.Processed)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
