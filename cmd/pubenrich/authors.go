// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/internal/orcid"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

var authorsCmd = &cobra.Command{
	Use:   "authors <author-string>",
	Short: "Resolve authors to ORCID iDs",
	Long: `Authors parses a citation-style author string ("Ozgen, C., P. Nijkamp
& J. Poot") into individual names and resolves each against the ORCID
public registry. A candidate is accepted only when the family name
matches; resolutions are cached.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig(cmd)
	authorCache := cache.Load[types.AuthorRecord](filepath.Join(cfg.Cache.Dir, "author_enrichment.json"), os.Stderr)
	resolver := orcid.NewResolver(authorCache, httpClient(cfg.ORCID.HTTPConfig), cfg.ORCID, os.Stderr)

	records := resolver.ResolveAll(context.Background(), args[0])
	if err := resolver.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not persist author cache: %v\n", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	for _, rec := range records {
		if rec.ORCID == "" {
			fmt.Printf("%-30s no ORCID found\n", rec.FullName)
			continue
		}
		fmt.Printf("%-30s %s (confidence %.1f)\n", rec.FullName, rec.ORCID, rec.Confidence)
	}
	return nil
}

func init() {
	authorsCmd.Flags().Bool("json", false, "output author records as JSON")

	rootCmd.AddCommand(authorsCmd)
}
