// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Identifier patterns for DOI, PubMed, arXiv, and Handle references found
// in page metadata, links, or body text.
var (
	doiPattern    = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"']+`)
	doiURLPrefix  = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)
	doiTextPrefix = regexp.MustCompile(`(?i)^doi:\s*`)
	pmidPattern   = regexp.MustCompile(`(?i)(?:PMID:?\s*|pubmed/)(\d{4,9})`)
	arxivPattern  = regexp.MustCompile(`(?i)(?:arXiv:|arxiv\.org/abs/)(\d{4}\.\d{4,5})`)
	handlePattern = regexp.MustCompile(`(?i)hdl\.handle\.net/(\d[^/\s<>"']*/[^\s<>"']+)`)
)

// doiMetaNames are meta tags publishers use to carry the DOI.
var doiMetaNames = []string{"citation_doi", "DC.identifier", "dc.identifier"}

// harvestIdentifiers scans a parsed page for DOI, PMID, arXiv ID, and
// Handle, preferring structured meta tags over link hrefs over body text.
func harvestIdentifiers(doc *goquery.Document, pc *PageContent) {
	for _, name := range doiMetaNames {
		if pc.DOI != "" {
			break
		}
		pc.DOI = cleanDOI(metaContent(doc, name))
	}
	if pmid := metaContent(doc, "citation_pmid"); pmid != "" {
		pc.PMID = strings.TrimSpace(pmid)
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if pc.DOI == "" && doiURLPrefix.MatchString(href) {
			pc.DOI = cleanDOI(href)
		}
		if pc.PMID == "" {
			if m := pmidPattern.FindStringSubmatch(href); m != nil {
				pc.PMID = m[1]
			}
		}
		if pc.Handle == "" {
			if m := handlePattern.FindStringSubmatch(href); m != nil {
				pc.Handle = m[1]
			}
		}
		return pc.DOI == "" || pc.PMID == "" || pc.Handle == ""
	})

	// Body text is the noisiest source; only fill gaps from it.
	if pc.DOI == "" || pc.ArxivID == "" || pc.Handle == "" {
		text := doc.Text()
		if pc.DOI == "" {
			pc.DOI = cleanDOI(doiPattern.FindString(text))
		}
		if pc.ArxivID == "" {
			if m := arxivPattern.FindStringSubmatch(text); m != nil {
				pc.ArxivID = m[1]
			}
		}
		if pc.Handle == "" {
			if m := handlePattern.FindStringSubmatch(text); m != nil {
				pc.Handle = m[1]
			}
		}
	}
}

// cleanDOI strips URL and "doi:" prefixes and trailing punctuation,
// returning the bare DOI or "" when s does not contain one.
func cleanDOI(s string) string {
	s = doiURLPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = doiTextPrefix.ReplaceAllString(s, "")
	s = doiPattern.FindString(s)
	return strings.TrimRight(s, ".,;")
}
