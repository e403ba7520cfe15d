package webscrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

// Profile holds the fields a scrape can realistically recover. Anything
// the page does not surface stays zero and is filled by later sources.
type Profile struct {
	DisplayName string
	Level       int
	SoloTier    string
	SoloDiv     string
	SoloLP      int
}

var (
	levelPattern = regexp.MustCompile(`(?:等级|Level|level)\s*[:：]?\s*(\d{1,4})`)
	rankPattern  = regexp.MustCompile(`(?i)(IRON|BRONZE|SILVER|GOLD|PLATINUM|DIAMOND|MASTER|GRANDMASTER|CHALLENGER)\s*(IV|III|II|I)?`)
	lpPattern    = regexp.MustCompile(`(\d{1,3})\s*(?:LP|胜点)`)
)

// Extract probes the payload as JSON first, then as HTML. It reports
// false when the page carries none of the player markers, which the
// caller treats as a soft miss rather than a transport error.
func Extract(name, contentType string, body *bytebufferpool.ByteBuffer) (Profile, bool) {
	raw := body.Bytes()
	if looksLikeJSON(contentType, raw) {
		if p, ok := extractJSON(name, raw); ok {
			return p, true
		}
	}
	return extractHTML(name, string(raw))
}

func looksLikeJSON(contentType string, raw []byte) bool {
	if strings.Contains(contentType, "application/json") {
		return true
	}
	trimmed := strings.TrimLeft(string(raw[:minInt(len(raw), 64)]), " \t\r\n")
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

type jsonProfile struct {
	Name         string `json:"name"`
	SummonerName string `json:"summonerName"`
	Level        int    `json:"level"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
}

func extractJSON(name string, raw []byte) (Profile, bool) {
	var payload struct {
		Data *jsonProfile `json:"data"`
		jsonProfile
	}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return Profile{}, false
	}

	candidate := payload.jsonProfile
	if payload.Data != nil {
		candidate = *payload.Data
	}

	displayName := candidate.Name
	if displayName == "" {
		displayName = candidate.SummonerName
	}
	if displayName == "" || !strings.EqualFold(displayName, name) {
		return Profile{}, false
	}

	return Profile{
		DisplayName: displayName,
		Level:       candidate.Level,
		SoloTier:    strings.ToUpper(candidate.Tier),
		SoloDiv:     strings.ToUpper(candidate.Rank),
		SoloLP:      candidate.LeaguePoints,
	}, true
}

// extractHTML requires the page to mention the player by name plus at
// least one stat marker. A page that merely echoes the search term in a
// "not found" banner fails the marker check.
func extractHTML(name, page string) (Profile, bool) {
	if !strings.Contains(page, name) {
		return Profile{}, false
	}

	markers := 0
	for _, marker := range []string{"等级", "段位", "rank", "Rank", "Level"} {
		if strings.Contains(page, marker) {
			markers++
		}
	}
	if markers == 0 {
		return Profile{}, false
	}

	p := Profile{DisplayName: name}
	if m := levelPattern.FindStringSubmatch(page); m != nil {
		if lvl, err := strconv.Atoi(m[1]); err == nil {
			p.Level = lvl
		}
	}
	if m := rankPattern.FindStringSubmatch(page); m != nil {
		p.SoloTier = strings.ToUpper(m[1])
		p.SoloDiv = strings.ToUpper(m[2])
	}
	if m := lpPattern.FindStringSubmatch(page); m != nil {
		if lp, err := strconv.Atoi(m[1]); err == nil {
			p.SoloLP = lp
		}
	}

	return p, true
}

// Identity converts the scraped fields into a domain identity. The
// browser adapter reuses it with its own source kind.
func (p Profile) Identity(src summoner.Source, name, region string) summoner.Identity {
	displayName := p.DisplayName
	if displayName == "" {
		displayName = name
	}

	now := time.Now().UTC()
	identity := summoner.Identity{
		IdentityKey: summoner.BuildIdentityKey(src, region, displayName, ""),
		DisplayName: displayName,
		Level:       maxInt(p.Level, 1),
		Region:      region,
		Source:      src,
		CreatedAt:   now,
		LastUpdated: now,
	}

	tier := summoner.Tier(p.SoloTier)
	if tier.Valid() {
		entry := &summoner.RankEntry{Tier: tier, LeaguePoints: p.SoloLP}
		if div := summoner.Division(p.SoloDiv); div.Valid() {
			entry.Division = div
		}
		identity.RankStats.Solo = entry
	}

	return identity
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
