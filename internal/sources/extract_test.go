// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/sshoc-nl/pubenrich/pkg/types"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing test HTML: %v", err)
	}
	return doc
}

const testAbstract = "This study investigates the relationship between housing costs and household formation among young adults in the Netherlands using register data."

func TestExtractAbstractFromMeta(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta name="citation_abstract" content="`+testAbstract+`">
	</head><body></body></html>`)

	if got := extractAbstract(doc); got != testAbstract {
		t.Errorf("extractAbstract = %q, want meta content", got)
	}
}

func TestExtractAbstractFromSelector(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<div class="abstract-content">Abstract `+testAbstract+`</div>
	</body></html>`)

	if got := extractAbstract(doc); got != testAbstract {
		t.Errorf("extractAbstract = %q, want selector content with Abstract label stripped", got)
	}
}

func TestExtractAbstractRejectsScriptText(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta name="description" content="function() { window.addEventListener('load', init); var x = document.getElementById('a'); }">
	</head><body></body></html>`)

	if got := extractAbstract(doc); got != "" {
		t.Errorf("extractAbstract = %q, want empty for code-like content", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta name="citation_keywords" content="housing; household formation; housing">
	</head><body>
		<div class="keywords"><a>young adults</a><a>["code","array"]</a></div>
	</body></html>`)

	got := extractKeywords(doc)
	want := []string{"housing", "household formation", "young adults"}
	if len(got) != len(want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keywords[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHarvestIdentifiers(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta name="citation_doi" content="https://doi.org/10.1080/13691830903123456">
		<meta name="citation_pmid" content="31234567">
	</head><body>
		<a href="https://hdl.handle.net/11245/1.234567">repository record</a>
		<p>Preprint available at arXiv:2101.01234.</p>
	</body></html>`)

	var pc PageContent
	harvestIdentifiers(doc, &pc)

	if pc.DOI != "10.1080/13691830903123456" {
		t.Errorf("DOI = %q", pc.DOI)
	}
	if pc.PMID != "31234567" {
		t.Errorf("PMID = %q", pc.PMID)
	}
	if pc.Handle != "11245/1.234567" {
		t.Errorf("Handle = %q", pc.Handle)
	}
	if pc.ArxivID != "2101.01234" {
		t.Errorf("ArxivID = %q", pc.ArxivID)
	}
}

func TestCleanDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://doi.org/10.1007/s00148-019-00752-7", "10.1007/s00148-019-00752-7"},
		{"doi: 10.1007/s00148-019-00752-7", "10.1007/s00148-019-00752-7"},
		{"10.1007/s00148-019-00752-7.", "10.1007/s00148-019-00752-7"},
		{"not a doi", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanDOI(tt.in); got != tt.want {
			t.Errorf("cleanDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractorExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta name="citation_abstract" content="` + testAbstract + `">
			<meta name="citation_journal_title" content="Journal of Housing Studies">
			<meta name="citation_doi" content="10.1080/02673037.2021.1234567">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), types.CascadeConfig{HTTPConfig: types.HTTPConfig{UserAgent: "test"}})
	pc, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if pc.Abstract != testAbstract {
		t.Errorf("Abstract = %q", pc.Abstract)
	}
	if pc.Journal != "Journal of Housing Studies" {
		t.Errorf("Journal = %q", pc.Journal)
	}
	if pc.DOI != "10.1080/02673037.2021.1234567" {
		t.Errorf("DOI = %q", pc.DOI)
	}
}

func TestExtractorExtractNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), types.CascadeConfig{})
	if _, err := e.Extract(context.Background(), srv.URL); err == nil {
		t.Error("Extract on HTTP 403: expected error")
	}
}
