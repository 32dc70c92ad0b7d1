// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{Dir: t.TempDir(), MaxResults: 20})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testContentCache(t *testing.T) *cache.Cache[types.ContentRecord] {
	t.Helper()
	c := cache.Load[types.ContentRecord](filepath.Join(t.TempDir(), "content.json"), io.Discard)
	c.Put(cache.Key("Cultural Diversity and Innovation", "Ozgen"), types.ContentRecord{
		PublicationTitle:   "Cultural Diversity and Innovation",
		PublicationAuthors: "Ozgen, C.",
		Abstract:           "Cultural diversity within firms relates to innovation outcomes.",
		DOI:                "10.1000/div",
		PrimaryKeywords:    []string{"diversity", "innovation"},
		Confidence:         0.95,
		Method:             "crossref_api",
		Timestamp:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	c.Put(cache.Key("Housing Careers of Migrants", "Zorlu"), types.ContentRecord{
		PublicationTitle:   "Housing Careers of Migrants",
		PublicationAuthors: "Zorlu, A.",
		Abstract:           "Migration histories shape housing careers in Dutch cities.",
		PrimaryKeywords:    []string{"housing", "migration"},
		Confidence:         0.85,
		Method:             "openalex_api",
		Timestamp:          time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	return c
}

func TestIngestAndSearch(t *testing.T) {
	s := newTestStore(t)
	content := testContentCache(t)

	summary, err := s.Ingest(context.Background(), content, io.Discard)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Indexed != 2 || summary.Updated != 0 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 2 indexed", summary)
	}

	results, err := s.Search(context.Background(), "innovation", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Cultural Diversity and Innovation" {
		t.Fatalf("results = %+v, want the innovation record", results)
	}
	if results[0].DOI != "10.1000/div" {
		t.Errorf("DOI = %q", results[0].DOI)
	}
	if len(results[0].Keywords) != 2 {
		t.Errorf("Keywords = %v, want the ranked keyword set", results[0].Keywords)
	}

	// Keyword column is searchable too.
	results, err = s.Search(context.Background(), "migration", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Housing Careers of Migrants" {
		t.Fatalf("results = %+v, want the housing record", results)
	}
}

func TestIngestIncremental(t *testing.T) {
	s := newTestStore(t)
	content := testContentCache(t)

	if _, err := s.Ingest(context.Background(), content, io.Discard); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	// Unchanged records are skipped on re-ingest.
	summary, err := s.Ingest(context.Background(), content, io.Discard)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if summary.Skipped != 2 || summary.Indexed != 0 || summary.Updated != 0 {
		t.Fatalf("summary = %+v, want 2 skipped", summary)
	}

	// A re-enriched record (new timestamp) is updated in place.
	key := cache.Key("Housing Careers of Migrants", "Zorlu")
	rec, _ := content.Get(key)
	rec.Abstract = "Updated abstract about housing careers and tenure choice."
	rec.Timestamp = rec.Timestamp.Add(time.Hour)
	content.Put(key, rec)

	summary, err = s.Ingest(context.Background(), content, io.Discard)
	if err != nil {
		t.Fatalf("third Ingest: %v", err)
	}
	if summary.Updated != 1 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 1 updated, 1 skipped", summary)
	}

	results, err := s.Search(context.Background(), "tenure", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v, want updated abstract to be searchable", results)
	}

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2 (update must not duplicate)", n)
	}
}

func TestSearchEmptyQueryListsAll(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Ingest(context.Background(), testContentCache(t), io.Discard); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := s.Search(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Title > results[1].Title {
		t.Error("empty-query results not sorted by title")
	}
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Ingest(context.Background(), testContentCache(t), io.Discard); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "catalog.yaml")
	if err := s.ExportYAML(context.Background(), path); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var doc ExportFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(doc.Publications) != 2 {
		t.Errorf("export has %d publications, want 2", len(doc.Publications))
	}
	if doc.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}
