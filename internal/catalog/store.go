// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists enriched publication records in a local
// SQLite database with full-text search over titles, abstracts, and
// keywords. Ingestion is incremental: records whose enrichment timestamp
// is unchanged since the last run are skipped.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the publication catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.Dir/catalog.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			authors TEXT,
			uri TEXT,
			abstract TEXT,
			doi TEXT,
			journal TEXT,
			url TEXT,
			keywords TEXT,
			confidence REAL,
			method TEXT,
			enriched_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			record_id TEXT PRIMARY KEY,
			enriched_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='publications_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE publications_fts USING fts5(
				title, abstract, keywords,
				content=publications, content_rowid=rowid
			)`,
			`CREATE TRIGGER publications_ai AFTER INSERT ON publications BEGIN
				INSERT INTO publications_fts(rowid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
			`CREATE TRIGGER publications_ad AFTER DELETE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract, keywords)
				VALUES('delete', old.rowid, old.title, old.abstract, old.keywords);
			END`,
			`CREATE TRIGGER publications_au AFTER UPDATE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract, keywords)
				VALUES('delete', old.rowid, old.title, old.abstract, old.keywords);
				INSERT INTO publications_fts(rowid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest populates the catalog from the content enrichment cache. A
// record whose enrichment timestamp matches the stored one is skipped;
// changed records are replaced, new ones inserted.
func (s *Store) Ingest(ctx context.Context, content *cache.Cache[types.ContentRecord], w io.Writer) (IngestSummary, error) {
	keys := content.Keys()
	sort.Strings(keys)

	var summary IngestSummary
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rec, _ := content.Get(key)
		enrichedAt := rec.Timestamp.UTC().Format(time.RFC3339Nano)

		var storedAt string
		err := s.db.QueryRowContext(ctx,
			`SELECT enriched_at FROM ingest_status WHERE record_id = ?`, key,
		).Scan(&storedAt)

		if err == nil && storedAt == enrichedAt {
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.ingestRecord(ctx, key, rec, enrichedAt); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.PublicationTitle, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", rec.PublicationTitle)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", rec.PublicationTitle)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) ingestRecord(ctx context.Context, id string, rec types.ContentRecord, enrichedAt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keywordsJSON, _ := json.Marshal(rec.Keywords())

	_, err = tx.ExecContext(ctx,
		`INSERT INTO publications (id, title, authors, uri, abstract, doi, journal, url, keywords, confidence, method, enriched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, uri=excluded.uri,
			abstract=excluded.abstract, doi=excluded.doi, journal=excluded.journal,
			url=excluded.url, keywords=excluded.keywords,
			confidence=excluded.confidence, method=excluded.method,
			enriched_at=excluded.enriched_at`,
		id, rec.PublicationTitle, rec.PublicationAuthors, rec.PublicationURI,
		rec.Abstract, rec.DOI, rec.Journal, rec.FoundURL,
		string(keywordsJSON), rec.Confidence, rec.Method, enrichedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting publication: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (record_id, enriched_at) VALUES (?, ?)
		 ON CONFLICT(record_id) DO UPDATE SET enriched_at=excluded.enriched_at`,
		id, enrichedAt,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// SearchResult is one catalog hit.
type SearchResult struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    string   `json:"authors,omitempty" yaml:"authors,omitempty"`
	Abstract   string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI        string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	Journal    string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Method     string   `json:"method" yaml:"method"`
}

// Search runs an FTS5 query over titles, abstracts, and keywords,
// returning hits in relevance order. An empty query lists the whole
// catalog sorted by title.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	if query != "" {
		qb.WriteString(
			`SELECT p.id, p.title, p.authors, p.abstract, p.doi, p.journal,
				p.keywords, p.confidence, p.method
			FROM publications_fts
			JOIN publications p ON p.rowid = publications_fts.rowid
			WHERE publications_fts MATCH ?
			ORDER BY publications_fts.rank`)
		args = append(args, query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.title, p.authors, p.abstract, p.doi, p.journal,
				p.keywords, p.confidence, p.method
			FROM publications p
			ORDER BY p.title`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r            SearchResult
			keywordsJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Authors, &r.Abstract, &r.DOI,
			&r.Journal, &keywordsJSON, &r.Confidence, &r.Method); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &r.Keywords); err != nil {
				return nil, fmt.Errorf("parsing keywords for %s: %w", r.ID, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of cataloged publications.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM publications`).Scan(&n)
	return n, err
}
