// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"strings"
	"testing"
)

func TestGenerateFrequentAndDomainTerms(t *testing.T) {
	abstract := "We follow migrant households over ten years. Migration histories " +
		"shape housing careers, and housing outcomes differ between migrant " +
		"generations. The housing market position of migrants improves slowly."

	got := Generate(abstract, "Migration and Housing Careers")

	if !contains(got, "housing") {
		t.Errorf("Generate = %v, want frequent word %q included", got, "housing")
	}
	// "migration" appears once in the abstract body but is a domain term.
	if !contains(got, "migration") {
		t.Errorf("Generate = %v, want domain term %q included", got, "migration")
	}
	if len(got) > maxGenerated {
		t.Errorf("Generate returned %d keywords, cap is %d", len(got), maxGenerated)
	}
	for _, kw := range got {
		if kw != strings.ToLower(kw) {
			t.Errorf("keyword %q not lowercased", kw)
		}
	}
}

func TestGenerateFiltersStopWords(t *testing.T) {
	abstract := "The study presents results and findings. The study uses the model framework."

	got := Generate(abstract, "")
	for _, banned := range []string{"study", "results", "findings", "model", "the"} {
		if contains(got, banned) {
			t.Errorf("Generate = %v, stop word %q must be filtered", got, banned)
		}
	}
}

func TestGenerateUnreadableFallsBackToTitle(t *testing.T) {
	garbage := "x9 q7 zz kk pp ww vv bb"

	got := Generate(garbage, "the housing market and migration in urban regions of the netherlands")
	if len(got) == 0 {
		t.Fatal("Generate = empty, want title-derived keywords")
	}
	if !contains(got, "housing") {
		t.Errorf("Generate = %v, want %q from title", got, "housing")
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	if got := Generate("", ""); got != nil {
		t.Errorf("Generate(\"\", \"\") = %v, want nil", got)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	abstract := "Innovation policy shapes regional innovation systems. Policy makers fund " +
		"innovation through regional programmes and regional institutions."

	first := Generate(abstract, "Innovation Policy")
	for i := 0; i < 5; i++ {
		again := Generate(abstract, "Innovation Policy")
		if strings.Join(again, ",") != strings.Join(first, ",") {
			t.Fatalf("Generate not deterministic: %v vs %v", first, again)
		}
	}
}

func TestRankExplicitInTitleIsPrimary(t *testing.T) {
	// Explicit (10.0) plus title boost (3.0) scores 13.0.
	primary, _ := Rank(
		[]string{"cultural diversity"},
		nil,
		"Cultural Diversity and Firm Innovation",
		"An abstract without the phrase.",
	)
	if !contains(primary, "cultural diversity") {
		t.Errorf("primary = %v, want explicit title keyword included", primary)
	}
}

func TestRankTierBoundaries(t *testing.T) {
	// Eight explicit keywords fill the primary tier; generated keywords at
	// base score 5.0 land in secondary, and anything below 5.0 is dropped.
	explicit := []string{"kw1", "kw2", "kw3", "kw4", "kw5", "kw6", "kw7", "kw8"}
	generated := []string{"fertility"}

	primary, secondary := Rank(explicit, generated, "", "")

	if len(primary) != 8 {
		t.Errorf("primary = %v, want all 8 explicit keywords", primary)
	}
	if !contains(secondary, "fertility") {
		t.Errorf("secondary = %v, want generated keyword at base score 5.0", secondary)
	}
}

func TestRankDropsBelowSecondaryFloor(t *testing.T) {
	// A generated keyword inside the top 8 but under the primary floor is
	// dropped, not demoted.
	primary, secondary := Rank(nil, []string{"demography"}, "", "")

	if len(primary) != 0 {
		t.Errorf("primary = %v, want empty (score 5.0 < primary floor)", primary)
	}
	if len(secondary) != 0 {
		t.Errorf("secondary = %v, want empty (top-8 keyword under primary floor is dropped)", secondary)
	}
}

func TestRankGeneratedPromotedByTitleAndAbstract(t *testing.T) {
	// Generated (5.0) + title (3.0) clears the primary floor.
	primary, _ := Rank(nil, []string{"ageing"}, "Population Ageing in Europe", "Ageing is discussed. Ageing again.")
	if !contains(primary, "ageing") {
		t.Errorf("primary = %v, want boosted generated keyword", primary)
	}
}

func TestRankDeduplicatesExplicitOverGenerated(t *testing.T) {
	primary, secondary := Rank(
		[]string{"Migration"},
		[]string{"migration"},
		"Migration Patterns",
		"",
	)
	total := len(primary) + len(secondary)
	if total != 1 {
		t.Errorf("got %d entries across tiers for one keyword, want 1 (primary=%v secondary=%v)",
			total, primary, secondary)
	}
}

func TestRankOrderedByScore(t *testing.T) {
	// "labour market" is explicit and in the title (13.0); "unemployment"
	// is explicit only (10.0).
	primary, _ := Rank(
		[]string{"unemployment", "labour market"},
		nil,
		"Labour Market Dynamics",
		"",
	)
	if len(primary) != 2 || primary[0] != "labour market" || primary[1] != "unemployment" {
		t.Errorf("primary = %v, want [labour market unemployment]", primary)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
