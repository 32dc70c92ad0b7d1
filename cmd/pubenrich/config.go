// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sshoc-nl/pubenrich/internal/pipeline"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// pipelineConfig assembles the stage configuration from the config file,
// environment, flags, and secret files, then fills defaults.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	var cfg types.PipelineConfig

	cfg.Cascade.Timeout = viper.GetDuration("cascade.timeout")
	cfg.Cascade.UserAgent = viper.GetString("cascade.user_agent")
	cfg.Cascade.SubstantialAbstractLen = viper.GetInt("cascade.substantial_abstract_len")
	cfg.Cascade.AdapterDelay = viper.GetDuration("cascade.adapter_delay")
	cfg.Cascade.ScholarDelay = viper.GetDuration("cascade.scholar_delay")
	cfg.Cascade.DeepExtraction = viper.GetBool("cascade.deep_extraction")
	cfg.Cascade.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key", viper.GetString("cascade.semantic_scholar_api_key"))
	cfg.Cascade.COREAPIKey = secretDefault("core-api-key", viper.GetString("cascade.core_api_key"))
	cfg.Cascade.OpenAlexEmail = secretDefault("openalex-email", viper.GetString("cascade.openalex_email"))

	cfg.Concepts.SimilarityThreshold = viper.GetFloat64("concepts.similarity_threshold")
	cfg.Concepts.PrimaryThreshold = viper.GetFloat64("concepts.primary_threshold")
	cfg.Concepts.SecondaryThreshold = viper.GetFloat64("concepts.secondary_threshold")
	cfg.Concepts.EnableAPISearch = viper.GetBool("concepts.enable_api_search")

	cfg.Cache.Dir = viper.GetString("cache.dir")
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		cfg.Cache.Dir = dir
	} else if dir, _ := rootCmd.PersistentFlags().GetString("cache-dir"); dir != "" {
		cfg.Cache.Dir = dir
	}

	cfg.Catalog.Dir = viper.GetString("catalog.dir")
	cfg.Catalog.MaxResults = viper.GetInt("catalog.max_results")
	cfg.Batch.PublicationDelay = viper.GetDuration("batch.publication_delay")

	cfg.Defaults()
	return cfg
}

// httpClient returns the shared HTTP client with the configured timeout.
func httpClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// newEnricher wires the enrichment pipeline for a command invocation.
func newEnricher(cmd *cobra.Command) (*pipeline.Enricher, pipeline.Caches, types.PipelineConfig) {
	cfg := pipelineConfig(cmd)
	caches := pipeline.LoadCaches(cfg.Cache.Dir, os.Stderr)
	e := pipeline.NewEnricher(httpClient(cfg.Cascade.HTTPConfig), cfg, caches, os.Stderr)
	return e, caches, cfg
}
