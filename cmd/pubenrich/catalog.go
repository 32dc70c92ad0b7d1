// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sshoc-nl/pubenrich/internal/catalog"
	"github.com/sshoc-nl/pubenrich/internal/pipeline"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the searchable publication catalog (store, search, export)",
	Long: `Catalog maintains a local SQLite database of enriched publications
with full-text search over titles, abstracts, and keywords. Use
subcommands to ingest enrichment results, search them, or export.`,
}

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest enriched records into the catalog",
	Long: `Store reads the content enrichment cache and populates the catalog
database. Records whose enrichment timestamp is unchanged since the last
run are skipped, so repeated runs are incremental.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	caches := pipeline.LoadCaches(cfg.Cache.Dir, os.Stderr)

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), caches.Content, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog with full-text search",
	Long: `Search runs an FTS5 query over titles, abstracts, and keywords.
Without a query, the whole catalog is listed sorted by title.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig(cmd)
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), strings.Join(args, " "), maxResults)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s\n", r.Title)
		if r.Authors != "" {
			fmt.Printf("    authors:  %s\n", r.Authors)
		}
		if r.DOI != "" {
			fmt.Printf("    doi:      %s\n", r.DOI)
		}
		if len(r.Keywords) > 0 {
			fmt.Printf("    keywords: %s\n", strings.Join(r.Keywords, ", "))
		}
	}
	return nil
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		cfg := pipelineConfig(cmd)
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(context.Background(), out); err != nil {
			return err
		}
		fmt.Printf("exported catalog to %s\n", out)
		return nil
	},
}

func init() {
	catalogSearchCmd.Flags().Int("max-results", 0, "maximum number of results (default from config)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")
	catalogExportCmd.Flags().String("out", "output/catalog.yaml", "export file path")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
