// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package concepts

import (
	"io"
	"strings"
	"time"

	"github.com/sshoc-nl/pubenrich/internal/cache"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// Index is the keyword fast path: a persistent mapping from a normalized
// keyword to the concept it last resolved to, letting repeat keywords
// skip vocabulary and similarity matching entirely. Hits only read;
// entries are written when a keyword is resolved the slow way.
type Index struct {
	cache *cache.Cache[types.ConceptIndexEntry]
}

// LoadIndex opens the index backed by path. Missing or corrupt backing
// data starts an empty index with a warning on w.
func LoadIndex(path string, w io.Writer) *Index {
	return &Index{cache: cache.Load[types.ConceptIndexEntry](path, w)}
}

func normalizeKeyword(kw string) string {
	return strings.Join(strings.Fields(strings.ToLower(kw)), " ")
}

// Lookup returns the entry for keyword, if indexed.
func (x *Index) Lookup(keyword string) (types.ConceptIndexEntry, bool) {
	return x.cache.Get(normalizeKeyword(keyword))
}

// Update records that keyword resolved to c. Overwrites unconditionally:
// a fresh resolution supersedes whatever the index held.
func (x *Index) Update(keyword string, c types.Concept) {
	x.cache.Put(normalizeKeyword(keyword), types.ConceptIndexEntry{
		URI:            c.URI,
		PreferredLabel: c.PreferredLabel,
		Confidence:     c.Confidence,
		LastUpdated:    time.Now().UTC(),
	})
}

// Len returns the number of indexed keywords.
func (x *Index) Len() int { return x.cache.Len() }

// Flush persists the index.
func (x *Index) Flush() error { return x.cache.Flush() }
