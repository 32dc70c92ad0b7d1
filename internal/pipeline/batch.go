// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// BatchResult summarizes one batch run.
type BatchResult struct {
	Processed int
	Found     int
	NotFound  int
	Failed    int
}

// RunBatch enriches publications sequentially with an inter-publication
// delay, continuing past individual failures. Work is checkpointed by
// the caches after each publication, so a killed run loses at most the
// in-flight one. Cancellation stops between publications, never mid-way
// through a flush.
func (e *Enricher) RunBatch(ctx context.Context, pubs []types.Publication, delay time.Duration, w io.Writer) BatchResult {
	var res BatchResult

	for i, pub := range pubs {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "batch cancelled after %d publications\n", res.Processed)
				return res
			case <-time.After(delay):
			}
		}

		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(pubs), pub.Title)
		rec, err := e.Enrich(ctx, pub)
		if err != nil {
			fmt.Fprintf(w, "warning: enrichment failed for %q: %v\n", pub.Title, err)
			res.Failed++
			res.Processed++
			continue
		}

		e.MapConcepts(ctx, rec)

		if rec.Method == types.MethodNotFound {
			res.NotFound++
		} else {
			res.Found++
		}
		res.Processed++
	}

	fmt.Fprintf(w, "batch complete: %d processed, %d found, %d not found, %d failed\n",
		res.Processed, res.Found, res.NotFound, res.Failed)
	return res
}
