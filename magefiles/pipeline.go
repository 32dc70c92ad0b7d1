//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const publicationsFile = "publications.yaml"

// run executes the built CLI with the given arguments, streaming output.
func run(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Enrich runs the batch enrichment over publications.yaml.
func Enrich() error {
	mg.Deps(Build)
	if _, err := os.Stat(publicationsFile); err != nil {
		return fmt.Errorf("missing %s: %w", publicationsFile, err)
	}
	return run("batch", publicationsFile)
}

// Store ingests enriched records into the catalog database.
func Store() error {
	mg.Deps(Build)
	return run("catalog", "store")
}

// Export writes the catalog to output/catalog.yaml.
func Export() error {
	mg.Deps(Build)
	return run("catalog", "export")
}

// Pipeline runs the full enrich, store, export sequence.
func Pipeline() error {
	mg.SerialDeps(Enrich, Store, Export)
	return nil
}
