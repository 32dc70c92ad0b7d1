// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubenrich CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sshoc-nl/pubenrich/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the pubenrich CLI.
var rootCmd = &cobra.Command{
	Use:   "pubenrich",
	Short: "Metadata enrichment for an academic publication catalog",
	Long: `pubenrich enriches bibliographic records with abstracts, ranked keywords,
ELSST vocabulary concepts, and ORCID identifiers.

Abstracts are located through a cascade of academic sources (CrossRef,
OpenAlex, Europe PMC, Semantic Scholar, arXiv, CORE, Google Scholar) with
early exit once a substantial abstract is found. Every stage is cached on
disk, so repeated runs are incremental and safe to interrupt.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubenrich.yaml or ~/.config/pubenrich/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: ./cache)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubenrich")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubenrich"))
		}
	}

	viper.SetEnvPrefix("PUBENRICH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
