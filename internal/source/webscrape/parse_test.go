package webscrape

import (
	"testing"

	"github.com/valyala/bytebufferpool"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

func bodyOf(s string) *bytebufferpool.ByteBuffer {
	buf := bytebufferpool.Get()
	buf.SetString(s)
	return buf
}

func TestExtract_ChineseProfilePage(t *testing.T) {
	page := `<html><body>
	<div class="player">love丶小文</div>
	<span>等级: 187</span>
	<span>段位 GOLD III</span>
	<span>42 胜点</span>
	</body></html>`
	body := bodyOf(page)
	defer bytebufferpool.Put(body)

	p, ok := Extract("love丶小文", "text/html; charset=utf-8", body)
	if !ok {
		t.Fatal("expected markers to be recognized")
	}
	if p.Level != 187 {
		t.Fatalf("level = %d, want 187", p.Level)
	}
	if p.SoloTier != "GOLD" || p.SoloDiv != "III" {
		t.Fatalf("rank = %s %s, want GOLD III", p.SoloTier, p.SoloDiv)
	}
	if p.SoloLP != 42 {
		t.Fatalf("lp = %d, want 42", p.SoloLP)
	}
}

func TestExtract_NotFoundBannerFailsMarkerCheck(t *testing.T) {
	// The page echoes the search term but carries no stat markers.
	body := bodyOf(`<html><body>没有找到召唤师 "夜未央"</body></html>`)
	defer bytebufferpool.Put(body)

	if _, ok := Extract("夜未央", "text/html", body); ok {
		t.Fatal("expected a miss on a not-found banner")
	}
}

func TestExtract_PageAboutAnotherPlayer(t *testing.T) {
	body := bodyOf(`<html><body>北风行 等级: 30 段位 SILVER I</body></html>`)
	defer bytebufferpool.Put(body)

	if _, ok := Extract("夜未央", "text/html", body); ok {
		t.Fatal("expected a miss when the page never names the player")
	}
}

func TestExtract_JSONEnvelope(t *testing.T) {
	body := bodyOf(`{"data":{"name":"夜未央","level":94,"tier":"platinum","rank":"iv","leaguePoints":18}}`)
	defer bytebufferpool.Put(body)

	p, ok := Extract("夜未央", "application/json", body)
	if !ok {
		t.Fatal("expected JSON profile to parse")
	}
	if p.Level != 94 || p.SoloTier != "PLATINUM" || p.SoloDiv != "IV" || p.SoloLP != 18 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestExtract_JSONNameMismatchFallsThrough(t *testing.T) {
	body := bodyOf(`{"summonerName":"someone else","level":50,"tier":"GOLD"}`)
	defer bytebufferpool.Put(body)

	if _, ok := Extract("夜未央", "application/json", body); ok {
		t.Fatal("expected a miss when the JSON names another player")
	}
}

func TestProfileIdentity(t *testing.T) {
	p := Profile{DisplayName: "love丶小文", Level: 187, SoloTier: "GOLD", SoloDiv: "III", SoloLP: 42}

	identity := p.Identity(summoner.SourceWebScrape, "love丶小文", "HN1")
	if err := identity.Validate(); err != nil {
		t.Fatalf("identity failed validation: %v", err)
	}
	if identity.IdentityKey != "HN1_love丶小文_web_scrape" {
		t.Fatalf("unexpected key: %s", identity.IdentityKey)
	}
	if identity.RankStats.Solo == nil || identity.RankStats.Solo.Tier != summoner.TierGold {
		t.Fatalf("solo rank not mapped: %+v", identity.RankStats.Solo)
	}
	if identity.RankStats.Solo.Division != summoner.DivisionIII {
		t.Fatalf("division = %s, want III", identity.RankStats.Solo.Division)
	}
}

func TestProfileIdentity_PartialScrapeStaysValid(t *testing.T) {
	// A page that surfaced only the name: level clamps to 1, rank stays
	// unranked, and garbage tiers are dropped.
	p := Profile{SoloTier: "EMERALD"}

	identity := p.Identity(summoner.SourceBrowser, "北风行", "WT3")
	if err := identity.Validate(); err != nil {
		t.Fatalf("identity failed validation: %v", err)
	}
	if identity.Level != 1 {
		t.Fatalf("level = %d, want 1", identity.Level)
	}
	if identity.RankStats.Solo != nil {
		t.Fatalf("invalid tier should stay unranked: %+v", identity.RankStats.Solo)
	}
	if identity.Source != summoner.SourceBrowser {
		t.Fatalf("source = %s, want browser", identity.Source)
	}
}
