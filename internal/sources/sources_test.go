// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// mockAdapter returns a fixed result and counts invocations.
type mockAdapter struct {
	name   string
	result types.SourceResult
	err    error
	calls  int
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Search(_ context.Context, _, _ string) (types.SourceResult, error) {
	m.calls++
	return m.result, m.err
}

// prose returns readable filler text of exactly n bytes that passes the
// content safety gate.
func prose(n int) string {
	base := "the study examines welfare policy outcomes for single mothers "
	s := strings.Repeat(base, n/len(base)+1)
	return s[:n]
}

func testCascade(adapters ...*mockAdapter) *Cascade {
	c := &Cascade{
		cfg: types.CascadeConfig{SubstantialAbstractLen: 200},
		w:   io.Discard,
	}
	for i, a := range adapters {
		c.entries = append(c.entries, entry{adapter: a, tier: i + 1})
	}
	return c
}

func TestFindBestEarlyExit(t *testing.T) {
	a1 := &mockAdapter{name: "one", err: ErrNoResult}
	a2 := &mockAdapter{name: "two", result: types.SourceResult{
		Abstract: prose(250), Method: "two_api", Confidence: 0.8,
	}}
	a3 := &mockAdapter{name: "three", result: types.SourceResult{
		Abstract: prose(400), Method: "three_api", Confidence: 0.9,
	}}

	got := testCascade(a1, a2, a3).FindBest(context.Background(), "Title", "Author")

	if got.Method != "two_api" {
		t.Errorf("Method = %q, want two_api", got.Method)
	}
	if a3.calls != 0 {
		t.Errorf("adapter three was invoked %d times after early exit, want 0", a3.calls)
	}
}

func TestFindBestTracksLongestWithoutEarlyExit(t *testing.T) {
	a1 := &mockAdapter{name: "one", result: types.SourceResult{
		Abstract: prose(120), Method: "one_api",
	}}
	a2 := &mockAdapter{name: "two", result: types.SourceResult{
		Abstract: prose(150), Method: "two_api",
	}}
	a3 := &mockAdapter{name: "three", err: ErrNoResult}

	got := testCascade(a1, a2, a3).FindBest(context.Background(), "Title", "Author")

	if got.Method != "two_api" {
		t.Errorf("Method = %q, want two_api (longest abstract seen)", got.Method)
	}
	if len(got.Abstract) != 150 {
		t.Errorf("abstract length = %d, want 150", len(got.Abstract))
	}
	if a3.calls != 1 {
		t.Errorf("adapter three calls = %d, want 1 (no early exit below threshold)", a3.calls)
	}
}

func TestFindBestAdapterFailureIsNonFatal(t *testing.T) {
	a1 := &mockAdapter{name: "one", err: errors.New("connection refused")}
	a2 := &mockAdapter{name: "two", result: types.SourceResult{
		Abstract: prose(250), Method: "two_api",
	}}

	got := testCascade(a1, a2).FindBest(context.Background(), "Title", "Author")

	if got.Method != "two_api" {
		t.Errorf("Method = %q, want two_api (cascade must survive adapter failure)", got.Method)
	}
}

func TestFindBestExhaustedReturnsNotFound(t *testing.T) {
	a1 := &mockAdapter{name: "one", err: ErrNoResult}
	a2 := &mockAdapter{name: "two", err: errors.New("timeout")}

	got := testCascade(a1, a2).FindBest(context.Background(), "Some Title", "Author")

	if got.Method != types.MethodNotFound {
		t.Errorf("Method = %q, want %q", got.Method, types.MethodNotFound)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %f, want 0", got.Confidence)
	}
	if got.Abstract != "" || got.URL != "" {
		t.Errorf("not-found result must be empty, got %+v", got)
	}
	if got.Found() {
		t.Error("Found() = true for not-found result")
	}
}

func TestFindBestRejectsUnsafeAbstract(t *testing.T) {
	a1 := &mockAdapter{name: "one", result: types.SourceResult{
		Abstract: "function(){ window.addEventListener('click', foo); } " + prose(200),
		Method:   "one_api",
	}}
	a2 := &mockAdapter{name: "two", result: types.SourceResult{
		Abstract: prose(250), Method: "two_api",
	}}

	got := testCascade(a1, a2).FindBest(context.Background(), "Title", "Author")

	if got.Method != "two_api" {
		t.Errorf("Method = %q, want two_api (corrupted abstract must be rejected)", got.Method)
	}
}

func TestFindBestSkipsEmptyAbstract(t *testing.T) {
	a1 := &mockAdapter{name: "one", result: types.SourceResult{
		URL: "https://example.org/a", Method: "one_api",
	}}
	a2 := &mockAdapter{name: "two", result: types.SourceResult{
		Abstract: prose(250), Method: "two_api",
	}}

	got := testCascade(a1, a2).FindBest(context.Background(), "Title", "Author")
	if got.Method != "two_api" {
		t.Errorf("Method = %q, want two_api", got.Method)
	}
}

func TestFirstAuthor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dijkstra, A. & van Wissen, L.", "Dijkstra"},
		{"Smith & Jones", "Smith"},
		{"Single Author", "Single Author"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstAuthor(tt.in); got != tt.want {
			t.Errorf("firstAuthor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleOverlap(t *testing.T) {
	if got := titleOverlap("Cultural Diversity and Innovation", "Cultural diversity and innovation in Dutch firms"); got < 0.99 {
		t.Errorf("full overlap = %f, want 1.0", got)
	}
	if got := titleOverlap("Cultural Diversity and Innovation", "Monetary Policy Shocks"); got != 0 {
		t.Errorf("disjoint overlap = %f, want 0", got)
	}
}

func TestNewCascadeOrdering(t *testing.T) {
	c := NewCascade(nil, types.CascadeConfig{}, io.Discard)
	names := c.Adapters()

	want := []string{"crossref", "openalex", "europepmc", "semantic_scholar", "arxiv", "google_scholar"}
	if len(names) != len(want) {
		t.Fatalf("adapter count = %d, want %d (%v)", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("adapter[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
