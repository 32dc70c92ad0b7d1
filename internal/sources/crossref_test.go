// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

func TestCrossRefSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.title")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"items":[
			{"DOI":"10.1007/s11205-020-02290-2",
			 "title":["Cultural Diversity and Innovation in Dutch Firms"],
			 "container-title":["Social Indicators Research"],
			 "abstract":"<jats:p>This paper examines how cultural diversity within firms relates to innovation outcomes in the Netherlands.</jats:p>"}
		]}}`))
	}))
	defer srv.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = srv.URL
	defer func() { crossrefAPIBase = orig }()

	a := &CrossRefAdapter{Client: srv.Client(), Config: types.CascadeConfig{HTTPConfig: types.HTTPConfig{UserAgent: "test"}}}
	got, err := a.Search(context.Background(), "Cultural Diversity and Innovation in Dutch Firms.", "Ozgen, C. & Nijkamp, P.")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != "Cultural Diversity and Innovation in Dutch Firms" {
		t.Errorf("query.title = %q, want trailing period stripped", gotQuery)
	}
	if got.DOI != "10.1007/s11205-020-02290-2" {
		t.Errorf("DOI = %q", got.DOI)
	}
	if got.URL != "https://doi.org/10.1007/s11205-020-02290-2" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Journal != "Social Indicators Research" {
		t.Errorf("Journal = %q", got.Journal)
	}
	if got.Method != "crossref_api" || got.Confidence != 0.95 {
		t.Errorf("Method/Confidence = %q/%f", got.Method, got.Confidence)
	}
	want := "This paper examines how cultural diversity within firms relates to innovation outcomes in the Netherlands."
	if got.Abstract != want {
		t.Errorf("Abstract = %q, want JATS tags stripped", got.Abstract)
	}
}

func TestCrossRefSearchRejectsUnrelatedTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"items":[
			{"DOI":"10.1000/other","title":["Monetary Policy Shocks in Emerging Markets"]}
		]}}`))
	}))
	defer srv.Close()

	orig := crossrefAPIBase
	crossrefAPIBase = srv.URL
	defer func() { crossrefAPIBase = orig }()

	a := &CrossRefAdapter{Client: srv.Client(), Config: types.CascadeConfig{}}
	_, err := a.Search(context.Background(), "Cultural Diversity and Innovation", "")
	if err != ErrNoResult {
		t.Errorf("err = %v, want ErrNoResult for mismatched title", err)
	}
}

func TestStripJATS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<jats:p>Plain   text.</jats:p>", "Plain text."},
		{"no tags at all", "no tags at all"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripJATS(tt.in); got != tt.want {
			t.Errorf("stripJATS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReconstructAbstract(t *testing.T) {
	idx := map[string][]int{
		"the":      {0, 4},
		"study":    {1},
		"examines": {2},
		"how":      {3},
		"market":   {5},
		"works":    {6},
	}
	want := "the study examines how the market works"
	if got := reconstructAbstract(idx); got != want {
		t.Errorf("reconstructAbstract = %q, want %q", got, want)
	}
	if got := reconstructAbstract(nil); got != "" {
		t.Errorf("reconstructAbstract(nil) = %q, want empty", got)
	}
}

func TestOpenAlexSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":"https://openalex.org/W123",
			 "title":"Labour Market Outcomes of Migration",
			 "doi":"https://doi.org/10.1016/j.example.2020.01",
			 "abstract_inverted_index":{"Migration":[0],"shapes":[1],"labour":[2],"market":[3],"outcomes.":[4]}}
		]}`))
	}))
	defer srv.Close()

	orig := openAlexSearchBase
	openAlexSearchBase = srv.URL
	defer func() { openAlexSearchBase = orig }()

	a := &OpenAlexAdapter{Client: srv.Client(), Config: types.CascadeConfig{}}
	got, err := a.Search(context.Background(), "Labour Market Outcomes of Migration", "Zorlu, A.")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got.Abstract != "Migration shapes labour market outcomes." {
		t.Errorf("Abstract = %q", got.Abstract)
	}
	if got.DOI != "10.1016/j.example.2020.01" {
		t.Errorf("DOI = %q, want doi.org prefix stripped", got.DOI)
	}
	if got.Method != "openalex_api" || got.Confidence != 0.85 {
		t.Errorf("Method/Confidence = %q/%f", got.Method, got.Confidence)
	}
}
