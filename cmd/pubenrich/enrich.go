// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <title>",
	Short: "Enrich one publication with an abstract, keywords, and concepts",
	Long: `Enrich runs the full pipeline for a single publication: the source
cascade finds the best available abstract, keywords are generated and
ranked, and the ranked keywords are mapped onto ELSST concepts.

Results are cached under the cache directory; running the same title and
authors again reuses the cached record without network access.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	authors, _ := cmd.Flags().GetString("authors")
	uri, _ := cmd.Flags().GetString("uri")
	asJSON, _ := cmd.Flags().GetBool("json")
	skipConcepts, _ := cmd.Flags().GetBool("no-concepts")

	e, _, _ := newEnricher(cmd)
	ctx := context.Background()

	rec, err := e.Enrich(ctx, types.Publication{Title: args[0], Authors: authors, URI: uri})
	if err != nil {
		return err
	}

	var mapping *types.ConceptMapping
	if !skipConcepts && len(rec.Keywords()) > 0 {
		m := e.MapConcepts(ctx, rec)
		mapping = &m
	}

	if asJSON {
		out := struct {
			Content  types.ContentRecord   `json:"content"`
			Concepts *types.ConceptMapping `json:"concepts,omitempty"`
		}{rec, mapping}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printRecord(rec, mapping)
	return nil
}

func printRecord(rec types.ContentRecord, mapping *types.ConceptMapping) {
	fmt.Printf("title:      %s\n", rec.PublicationTitle)
	if rec.Method == types.MethodNotFound {
		fmt.Println("abstract:   not found in any source")
	} else {
		fmt.Printf("method:     %s (confidence %.2f)\n", rec.Method, rec.Confidence)
		fmt.Printf("abstract:   %d chars\n", len(rec.Abstract))
	}
	if rec.DOI != "" {
		fmt.Printf("doi:        %s\n", rec.DOI)
	}
	if rec.Journal != "" {
		fmt.Printf("journal:    %s\n", rec.Journal)
	}
	if len(rec.PrimaryKeywords) > 0 {
		fmt.Printf("keywords:   %v\n", rec.PrimaryKeywords)
	}
	if len(rec.SecondaryKeywords) > 0 {
		fmt.Printf("secondary:  %v\n", rec.SecondaryKeywords)
	}
	if mapping != nil {
		for _, c := range mapping.Primary {
			fmt.Printf("concept:    %s (%.2f) %s\n", c.PreferredLabel, c.Confidence, c.URI)
		}
		for _, c := range mapping.Secondary {
			fmt.Printf("concept:    %s (%.2f, secondary) %s\n", c.PreferredLabel, c.Confidence, c.URI)
		}
	}
}

func init() {
	enrichCmd.Flags().String("authors", "", "citation-style author string")
	enrichCmd.Flags().String("uri", "", "catalog URI of the publication")
	enrichCmd.Flags().Bool("json", false, "output the full record as JSON")
	enrichCmd.Flags().Bool("no-concepts", false, "skip ELSST concept mapping")

	rootCmd.AddCommand(enrichCmd)
}
