// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sshoc-nl/pubenrich/internal/concepts"
	"github.com/sshoc-nl/pubenrich/internal/pipeline"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the keyword fast-path index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the keyword index from the concept mapping cache",
	Long: `Rebuild reconstructs the keyword fast-path index from the existing
concept mapping cache. Every concept's matching keywords are re-indexed,
with primary concepts taking precedence over secondary ones. Use this
after editing or pre-seeding the mapping cache by hand.`,
	RunE: runIndexRebuild,
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	caches := pipeline.LoadCaches(cfg.Cache.Dir, os.Stderr)

	n := concepts.RebuildIndex(caches.Index, caches.Mappings)
	if err := caches.Index.Flush(); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	fmt.Printf("indexed %d keywords from %d cached mappings\n", n, caches.Mappings.Len())
	return nil
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show keyword index size",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(cmd)
		caches := pipeline.LoadCaches(cfg.Cache.Dir, os.Stderr)
		fmt.Printf("keywords indexed:  %d\n", caches.Index.Len())
		fmt.Printf("cached mappings:   %d\n", caches.Mappings.Len())
		fmt.Printf("cached content:    %d\n", caches.Content.Len())
		return nil
	},
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}
