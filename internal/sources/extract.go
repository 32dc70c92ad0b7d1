// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sshoc-nl/pubenrich/internal/textqual"
	"github.com/sshoc-nl/pubenrich/pkg/types"
)

// PageContent holds everything a deep-extraction pass could salvage from
// a publisher or repository page.
type PageContent struct {
	Abstract string
	Keywords []string
	Journal  string
	DOI      string
	PMID     string
	ArxivID  string
	Handle   string
}

// abstractMetaNames are meta tags that carry the abstract directly, tried
// before any container selector.
var abstractMetaNames = []string{
	"citation_abstract",
	"dc.description",
	"DC.Description",
	"description",
	"og:description",
}

// abstractSelectors cover the abstract containers of the major publisher
// platforms (Wiley, Elsevier, Springer, Taylor & Francis, repositories).
// Order matters: the most specific patterns come first.
var abstractSelectors = []string{
	"div.abstract-group",
	"section.article-section--abstract",
	"div.article-section__content",
	"div.abstract-content",
	"div.c-article-section__content",
	"div.abstractSection",
	"div.hlFld-Abstract",
	"section[class*='abstract']",
	"div[class*='abstract']",
	"div[id*='abstract']",
	"section[id*='abstract']",
	"p[class*='abstract']",
	"blockquote.abstract",
}

// Extractor fetches a result URL and scrapes a fuller abstract plus
// explicit keywords and identifiers than the search index snippet offers.
type Extractor struct {
	client *http.Client
	cfg    types.CascadeConfig
}

// NewExtractor returns an Extractor using client for page fetches.
func NewExtractor(client *http.Client, cfg types.CascadeConfig) *Extractor {
	return &Extractor{client: client, cfg: cfg}
}

// Extract fetches pageURL and returns whatever could be scraped. All
// extracted text is filtered through the content validator; an
// unreachable or unusable page is an error the caller logs and ignores.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return PageContent{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return PageContent{}, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PageContent{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return PageContent{}, fmt.Errorf("parsing page: %w", err)
	}

	pc := PageContent{
		Abstract: extractAbstract(doc),
		Keywords: extractKeywords(doc),
		Journal:  metaContent(doc, "citation_journal_title"),
	}
	harvestIdentifiers(doc, &pc)
	return pc, nil
}

// extractAbstract tries meta tags first, then the known abstract
// container selectors, returning the first candidate that passes the
// safety gate.
func extractAbstract(doc *goquery.Document) string {
	for _, name := range abstractMetaNames {
		if text := cleanPageText(metaContent(doc, name)); textqual.IsSafeToProcess(text) {
			return text
		}
	}

	for _, sel := range abstractSelectors {
		text := cleanPageText(doc.Find(sel).First().Text())
		text = strings.TrimPrefix(text, "Abstract")
		text = strings.TrimSpace(text)
		if textqual.IsSafeToProcess(text) && textqual.IsReadable(text) {
			return text
		}
	}
	return ""
}

// extractKeywords harvests explicit keywords from citation meta tags and
// keyword list markup, validating each token.
func extractKeywords(doc *goquery.Document) []string {
	var raw []string

	doc.Find(`meta[name="citation_keywords"], meta[name="keywords"], meta[name="dc.subject"]`).
		Each(func(_ int, sel *goquery.Selection) {
			if content, ok := sel.Attr("content"); ok {
				raw = append(raw, splitKeywordList(content)...)
			}
		})

	doc.Find("ul.keywords li, div.keywords a, a.kwd-search, span.kwd-text").
		Each(func(_ int, sel *goquery.Selection) {
			raw = append(raw, strings.TrimSpace(sel.Text()))
		})

	seen := make(map[string]struct{})
	var out []string
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		lower := strings.ToLower(kw)
		if kw == "" || len(kw) > 50 || !textqual.IsValidKeyword(kw) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, kw)
		if len(out) == 10 {
			break
		}
	}
	return out
}

func splitKeywordList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n'
	})
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First()
	if content, ok := sel.Attr("content"); ok {
		return content
	}
	sel = doc.Find(fmt.Sprintf(`meta[property=%q]`, name)).First()
	if content, ok := sel.Attr("content"); ok {
		return content
	}
	return ""
}

// cleanPageText collapses whitespace runs left behind by HTML extraction.
func cleanPageText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
