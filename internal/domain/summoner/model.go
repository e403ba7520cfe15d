package summoner

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies which adapter produced a record. The zero value is not
// a valid source.
type Source string

const (
	SourceRiotAPI          Source = "riot_api"
	SourceSyntheticProfile Source = "synthetic_profile"
	SourceBrowser          Source = "browser"
	SourceAggregator       Source = "aggregator"
	SourceWebScrape        Source = "web_scrape"
	SourceSynthetic        Source = "synthetic"
	SourceTestFixture      Source = "test_fixture"
)

// SourcePriority ranks sources for primary selection and merge precedence.
// Higher wins. Represented as data so priority changes never touch merge
// logic.
type SourcePriority map[Source]int

func DefaultSourcePriority() SourcePriority {
	return SourcePriority{
		SourceRiotAPI:          60,
		SourceSyntheticProfile: 50,
		SourceBrowser:          40,
		SourceAggregator:       35,
		SourceWebScrape:        30,
		SourceSynthetic:        20,
		SourceTestFixture:      10,
	}
}

func (p SourcePriority) Of(s Source) int {
	if p == nil {
		return 0
	}
	return p[s]
}

// Regions enumerates the server regions the original tracker knows about:
// telecom shards HN1..HN19, unicom shards WT1..WT7 and the EDU shard.
var Regions = buildRegionSet()

func buildRegionSet() map[string]struct{} {
	set := make(map[string]struct{}, 27)
	for i := 1; i <= 19; i++ {
		set[fmt.Sprintf("HN%d", i)] = struct{}{}
	}
	for i := 1; i <= 7; i++ {
		set[fmt.Sprintf("WT%d", i)] = struct{}{}
	}
	set["EDU1"] = struct{}{}
	return set
}

func IsValidRegion(region string) bool {
	_, ok := Regions[region]
	return ok
}

// RankEntry is one ranked-queue standing.
type RankEntry struct {
	Tier         Tier     `json:"tier"`
	Division     Division `json:"division"`
	LeaguePoints int      `json:"leaguePoints"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	WinRate      int      `json:"winRate"`
}

// RankStats holds the two ranked queues. A nil entry means unranked in that
// queue.
type RankStats struct {
	Solo *RankEntry `json:"soloQueue,omitempty"`
	Flex *RankEntry `json:"flexQueue,omitempty"`
}

func (r RankStats) HasAny() bool {
	return (r.Solo != nil && r.Solo.Tier != "") || (r.Flex != nil && r.Flex.Tier != "")
}

type AggregateStats struct {
	TotalGames  int `json:"totalGames"`
	TotalWins   int `json:"totalWins"`
	TotalLosses int `json:"totalLosses"`
}

type ProfileIcon struct {
	IconID  int    `json:"iconId,omitempty"`
	IconURL string `json:"iconUrl,omitempty"`
}

func (p ProfileIcon) IsZero() bool {
	return p.IconID == 0 && p.IconURL == ""
}

// Identity is the canonical player record, keyed by IdentityKey.
type Identity struct {
	IdentityKey   string         `json:"identityKey"`
	DisplayName   string         `json:"displayName"`
	Level         int            `json:"level"`
	Region        string         `json:"region"`
	RankStats     RankStats      `json:"rankStats"`
	Aggregate     AggregateStats `json:"aggregateStats"`
	ProfileIcon   ProfileIcon    `json:"profileIcon"`
	Source        Source         `json:"sourceOfTruth"`
	SourceHistory []Source       `json:"sourceHistory,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}

func (i Identity) Validate() error {
	if strings.TrimSpace(i.IdentityKey) == "" {
		return fmt.Errorf("identity key is required")
	}
	if strings.TrimSpace(i.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	if i.Level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", i.Level)
	}
	if !IsValidRegion(i.Region) {
		return fmt.Errorf("invalid region: %s", i.Region)
	}
	if i.Source == "" {
		return fmt.Errorf("source of truth is required")
	}
	return nil
}

// BuildIdentityKey encodes source, region, name and an optional
// disambiguator into the natural upsert key.
func BuildIdentityKey(src Source, region, name, disambiguator string) string {
	parts := []string{region, name, string(src)}
	if disambiguator != "" {
		parts = append(parts, disambiguator)
	}
	return strings.Join(parts, "_")
}

// AddSourceHistory appends src to the history if not already present,
// preserving insertion order.
func (i *Identity) AddSourceHistory(src Source) {
	for _, existing := range i.SourceHistory {
		if existing == src {
			return
		}
	}
	i.SourceHistory = append(i.SourceHistory, src)
}
