// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textqual classifies scraped text as readable prose or corrupted
// code/markup noise. Every text accepted into a cache or surfaced to a
// user must pass the relevant predicate first; this is how the pipeline
// tolerates an untrusted, heterogeneous scraping surface without
// corrupting persistent state. All predicates are pure functions.
package textqual

import (
	"regexp"
	"strings"
)

const (
	minReadableLen     = 10
	minSafeLen         = 50
	readableRatioFloor = 0.70
	controlRatioCeil   = 0.05
	nonASCIIRatioCeil  = 0.30
	minReadableWords   = 10
	minKeywordLetters  = 2
	specialRatioCeil   = 0.30
)

// commonWords are frequent English and Dutch words; at least one must
// appear for text to count as readable. Matched as substrings, so short
// entries also fire inside longer words.
var commonWords = []string{
	"the", "and", "of", "in", "to", "a", "is", "that", "for", "with",
	"de", "het", "en", "van", "een", "dat", "voor", "met", "op",
}

// codeSignatures match JavaScript and markup fragments that leak out of
// scraped pages. Any hit rejects the text outright.
var codeSignatures = []*regexp.Regexp{
	regexp.MustCompile(`\.parentNode`),
	regexp.MustCompile(`insertBefore\(`),
	regexp.MustCompile(`(?i)addEventListener\(`),
	regexp.MustCompile(`(?i)removeEventListener\(`),
	regexp.MustCompile(`(?i)addEventProperties`),
	regexp.MustCompile(`(?i)removeEventProperty`),
	regexp.MustCompile(`(?i)setEventProperties`),
	regexp.MustCompile(`(?i)document\.`),
	regexp.MustCompile(`(?i)window\.`),
	regexp.MustCompile(`(?i)function\s*\(`),
	regexp.MustCompile(`(?i)var\s+\w+\s*=`),
	regexp.MustCompile(`(?i)let\s+\w+\s*=`),
	regexp.MustCompile(`(?i)const\s+\w+\s*=`),
	regexp.MustCompile(`\[\s*"[a-zA-Z]+"\s*,`),
	regexp.MustCompile(`"\w+"\s*\]`),
}

// keywordCodeSignatures extend codeSignatures for single tokens: quoted
// strings and bare bracket/brace notation are never academic keywords.
var keywordCodeSignatures = []*regexp.Regexp{
	regexp.MustCompile(`^\s*["'].*["']\s*$`),
	regexp.MustCompile(`^\s*\[.*\]\s*$`),
	regexp.MustCompile(`^\s*\{.*\}\s*$`),
}

// noiseTerms are web and platform terms that show up in scraped keyword
// fields but carry no subject meaning.
var noiseTerms = map[string]struct{}{
	"semantic scholar": {}, "google scholar": {}, "academic reference": {},
	"scholar team": {}, "api": {}, "javascript": {}, "html": {}, "css": {},
	"json": {}, "xml": {}, "http": {}, "https": {}, "www": {}, "com": {},
	"org": {}, "edu": {}, "gov": {}, "net": {},
}

var (
	readableChar = regexp.MustCompile(`[a-zA-Z0-9\s.,;:!?()-]`)
	controlChar  = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	readableWord = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	letterChar   = regexp.MustCompile(`[a-zA-Z]`)
	specialChar  = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
)

// IsReadable reports whether text looks like prose: long enough, mostly
// plain characters, and containing at least one common English or Dutch
// word.
func IsReadable(text string) bool {
	if len(text) < minReadableLen {
		return false
	}

	readable := len(readableChar.FindAllString(text, -1))
	if float64(readable)/float64(len(text)) <= readableRatioFloor {
		return false
	}

	lower := strings.ToLower(text)
	for _, w := range commonWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// IsSafeToProcess is the stricter gate applied before any scraped content
// may enter a cache: it additionally rejects control-character noise,
// mostly non-ASCII blobs, code leakage, and texts with too few real words.
func IsSafeToProcess(text string) bool {
	if len(text) < minSafeLen {
		return false
	}

	n := float64(len(text))
	if float64(len(controlChar.FindAllString(text, -1)))/n > controlRatioCeil {
		return false
	}

	nonASCII := 0
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7e {
			nonASCII++
		}
	}
	if float64(nonASCII)/n > nonASCIIRatioCeil {
		return false
	}

	for _, sig := range codeSignatures {
		if sig.MatchString(text) {
			return false
		}
	}

	return len(readableWord.FindAllString(text, -1)) >= minReadableWords
}

// IsValidKeyword reports whether token is usable as an academic keyword:
// readable, not code-like, not mostly special characters, and not a known
// web/technical noise term.
func IsValidKeyword(token string) bool {
	token = strings.TrimSpace(token)
	if len(token) < minKeywordLetters {
		return false
	}

	for _, sig := range codeSignatures {
		if sig.MatchString(token) {
			return false
		}
	}
	for _, sig := range keywordCodeSignatures {
		if sig.MatchString(token) {
			return false
		}
	}

	if float64(len(specialChar.FindAllString(token, -1))) > float64(len(token))*specialRatioCeil {
		return false
	}
	if len(letterChar.FindAllString(token, -1)) < minKeywordLetters {
		return false
	}

	_, noisy := noiseTerms[strings.ToLower(token)]
	return !noisy
}
