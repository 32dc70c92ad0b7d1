// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportFile is the shape of the catalog export document.
type ExportFile struct {
	GeneratedAt  time.Time      `yaml:"generated_at"`
	Publications []SearchResult `yaml:"publications"`
}

// ExportYAML writes the whole catalog to path as YAML, for collaborators
// that consume enrichment results outside the database.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	results, err := s.Search(ctx, "", 1<<30)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	doc := ExportFile{
		GeneratedAt:  time.Now().UTC(),
		Publications: results,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
