// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <publications.yaml>",
	Short: "Enrich a whole list of publications",
	Long: `Batch enriches every publication listed in a YAML file, pacing
requests with an inter-publication delay and continuing past individual
failures. The file holds a list of records:

    - title: Cultural Diversity and Innovation in Dutch Firms
      authors: Ozgen, C., P. Nijkamp & J. Poot
      uri: https://catalog.example.org/pub/123

Work is checkpointed through the caches after each publication, so an
interrupted run can be resumed by running the same command again.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading publication list: %w", err)
	}

	var pubs []types.Publication
	if err := yaml.Unmarshal(data, &pubs); err != nil {
		return fmt.Errorf("parsing publication list: %w", err)
	}
	if len(pubs) == 0 {
		return fmt.Errorf("no publications in %s", args[0])
	}

	e, _, cfg := newEnricher(cmd)
	delay := cfg.Batch.PublicationDelay
	if d, _ := cmd.Flags().GetDuration("delay"); d > 0 {
		delay = d
	}

	res := e.RunBatch(context.Background(), pubs, delay, os.Stdout)
	if res.Failed > 0 {
		return fmt.Errorf("%d publication(s) failed", res.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().Duration("delay", 0, "inter-publication delay (default from config, 2s)")

	rootCmd.AddCommand(batchCmd)
}
