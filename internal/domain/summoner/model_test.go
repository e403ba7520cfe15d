package summoner

import (
	"testing"
	"time"
)

func TestBuildIdentityKey(t *testing.T) {
	got := BuildIdentityKey(SourceRiotAPI, "HN1", "夜未央", "")
	if got != "HN1_夜未央_riot_api" {
		t.Fatalf("unexpected key: %s", got)
	}

	got = BuildIdentityKey(SourceRiotAPI, "HN1", "夜未央", "abc123")
	if got != "HN1_夜未央_riot_api_abc123" {
		t.Fatalf("unexpected disambiguated key: %s", got)
	}
}

func TestIsValidRegion(t *testing.T) {
	for _, region := range []string{"HN1", "HN19", "WT1", "WT7", "EDU1"} {
		if !IsValidRegion(region) {
			t.Fatalf("expected %s to be a known region", region)
		}
	}
	for _, region := range []string{"HN0", "HN20", "WT8", "EDU2", "NA1", ""} {
		if IsValidRegion(region) {
			t.Fatalf("expected %s to be rejected", region)
		}
	}
}

func TestIdentityValidate(t *testing.T) {
	now := time.Now()
	valid := Identity{
		IdentityKey: "HN1_北风行_web_scrape",
		DisplayName: "北风行",
		Level:       42,
		Region:      "HN1",
		Source:      SourceWebScrape,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid identity, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Identity)
	}{
		{"missing key", func(i *Identity) { i.IdentityKey = "  " }},
		{"missing name", func(i *Identity) { i.DisplayName = "" }},
		{"zero level", func(i *Identity) { i.Level = 0 }},
		{"unknown region", func(i *Identity) { i.Region = "NA1" }},
		{"missing source", func(i *Identity) { i.Source = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := valid
			tt.mutate(&identity)
			if err := identity.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAddSourceHistory_Dedupes(t *testing.T) {
	var identity Identity
	identity.AddSourceHistory(SourceRiotAPI)
	identity.AddSourceHistory(SourceWebScrape)
	identity.AddSourceHistory(SourceRiotAPI)

	if len(identity.SourceHistory) != 2 {
		t.Fatalf("expected 2 entries, got %v", identity.SourceHistory)
	}
	if identity.SourceHistory[0] != SourceRiotAPI || identity.SourceHistory[1] != SourceWebScrape {
		t.Fatalf("unexpected order: %v", identity.SourceHistory)
	}
}

func TestRankStatsHasAny(t *testing.T) {
	var stats RankStats
	if stats.HasAny() {
		t.Fatal("empty stats reported ranked")
	}
	stats.Flex = &RankEntry{}
	if stats.HasAny() {
		t.Fatal("tierless entry reported ranked")
	}
	stats.Flex.Tier = TierBronze
	if !stats.HasAny() {
		t.Fatal("ranked flex entry not reported")
	}
}
