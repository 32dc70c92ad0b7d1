// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sshoc-nl/pubenrich/internal/concepts"
	"github.com/sshoc-nl/pubenrich/internal/pipeline"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts <keyword>...",
	Short: "Map keywords onto ELSST vocabulary concepts",
	Long: `Concepts resolves one or more keywords against the ELSST vocabulary:
previously resolved keywords hit the fast-path index, the rest go through
exact and alias matching, similarity scoring against the publication
context, and optionally the live ELSST thesaurus API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConcepts,
}

func runConcepts(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig(cmd)
	caches := pipeline.LoadCaches(cfg.Cache.Dir, os.Stderr)
	resolver := concepts.NewResolver(caches.Index, caches.Mappings, httpClient(cfg.Concepts.HTTPConfig), cfg.Concepts, os.Stderr)

	m := resolver.MapKeywords(context.Background(), args, title, abstract)
	if err := resolver.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not persist concept caches: %v\n", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	if m.TotalFound == 0 {
		fmt.Println("no concepts found")
		return nil
	}
	for _, c := range m.Primary {
		fmt.Printf("%-22s %.2f  %s  (via %v)\n", c.PreferredLabel, c.Confidence, c.URI, c.MatchingKeywords)
	}
	for _, c := range m.Secondary {
		fmt.Printf("%-22s %.2f  %s  (secondary, via %v)\n", c.PreferredLabel, c.Confidence, c.URI, c.MatchingKeywords)
	}
	return nil
}

func init() {
	conceptsCmd.Flags().String("title", "", "publication title for similarity context")
	conceptsCmd.Flags().String("abstract", "", "abstract text for similarity context")
	conceptsCmd.Flags().Bool("json", false, "output the mapping as JSON")

	rootCmd.AddCommand(conceptsCmd)
}
