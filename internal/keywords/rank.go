// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"sort"
	"strings"
)

// Scoring weights. Explicit keywords start well above generated ones so
// an author-supplied keyword lands in the primary tier unless the tier
// is already full of other explicit keywords.
const (
	explicitScore  = 10.0
	generatedScore = 5.0
	titleBoost     = 3.0
	abstractBoost  = 0.5

	primaryFloor   = 7.0
	secondaryFloor = 5.0
	primarySize    = 8
)

// Rank merges explicit and generated keywords into ranked primary and
// secondary tiers. Explicit keywords dominate; occurrence in the title
// or repeated occurrence in the abstract boosts a keyword further.
// Keywords that score below the secondary floor are dropped.
func Rank(explicit, generated []string, title, abstract string) (primary, secondary []string) {
	type scored struct {
		keyword string
		score   float64
	}

	var list []scored
	index := make(map[string]int)

	for _, kw := range explicit {
		k := strings.ToLower(kw)
		if _, dup := index[k]; dup {
			continue
		}
		index[k] = len(list)
		list = append(list, scored{keyword: k, score: explicitScore})
	}
	for _, kw := range generated {
		k := strings.ToLower(kw)
		if _, dup := index[k]; dup {
			continue
		}
		index[k] = len(list)
		list = append(list, scored{keyword: k, score: generatedScore})
	}

	titleLower := strings.ToLower(title)
	abstractLower := strings.ToLower(abstract)
	for i := range list {
		if strings.Contains(titleLower, list[i].keyword) {
			list[i].score += titleBoost
		}
		if n := strings.Count(abstractLower, list[i].keyword); n > 1 {
			list[i].score += float64(n) * abstractBoost
		}
	}

	// Stable sort keeps the explicit-before-generated insertion order for
	// equal scores.
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	for i, s := range list {
		switch {
		case i < primarySize && s.score >= primaryFloor:
			primary = append(primary, s.keyword)
		case i >= primarySize && s.score >= secondaryFloor:
			secondary = append(secondary, s.keyword)
		}
	}
	return primary, secondary
}
