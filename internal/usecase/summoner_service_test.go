package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/infrastructure/repository/memory"
	"github.com/riftwatch/rift-ledger/internal/platform/cache"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
)

func TestSummonerService_ListSummonersSortedByName(t *testing.T) {
	summoners := memory.NewSummonerRepository()
	matches := memory.NewMatchRepository()
	svc := NewSummonerService(summoners, matches, nil, logging.NewNop())
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_ = summoners.UpsertByKey(ctx, identityFixture(name, summoner.SourceRiotAPI, nil))
	}

	got, err := svc.ListSummoners(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 summoners, got %d", len(got))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if got[i].DisplayName != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].DisplayName, want)
		}
	}
}

func TestSummonerService_ListSummonersServedFromCache(t *testing.T) {
	summoners := memory.NewSummonerRepository()
	matches := memory.NewMatchRepository()
	store := cache.NewStore(time.Minute)
	svc := NewSummonerService(summoners, matches, store, logging.NewNop())
	ctx := context.Background()

	_ = summoners.UpsertByKey(ctx, identityFixture("cached", summoner.SourceRiotAPI, nil))

	first, err := svc.ListSummoners(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}

	// A write that bypasses the service is invisible until invalidation.
	_ = summoners.UpsertByKey(ctx, identityFixture("newcomer", summoner.SourceRiotAPI, nil))

	second, err := svc.ListSummoners(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("expected cached result of %d entries, got %d", len(first), len(second))
	}

	store.DeletePrefix(ctx, "summoners:")
	third, err := svc.ListSummoners(ctx)
	if err != nil {
		t.Fatalf("third list: %v", err)
	}
	if len(third) != 2 {
		t.Fatalf("expected fresh load after invalidation, got %d entries", len(third))
	}
}

func TestSummonerService_FindSummoners(t *testing.T) {
	summoners := memory.NewSummonerRepository()
	matches := memory.NewMatchRepository()
	svc := NewSummonerService(summoners, matches, nil, logging.NewNop())
	ctx := context.Background()

	_ = summoners.UpsertByKey(ctx, identityFixture("双面人", summoner.SourceRiotAPI, nil))
	_ = summoners.UpsertByKey(ctx, identityFixture("双面人", summoner.SourceWebScrape, func(id *summoner.Identity) {
		id.Region = "WT3"
		id.IdentityKey = summoner.BuildIdentityKey(summoner.SourceWebScrape, "WT3", "双面人", "")
	}))
	_ = summoners.UpsertByKey(ctx, identityFixture("北风行", summoner.SourceRiotAPI, nil))

	all, err := svc.FindSummoners(ctx, "双面人", "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 identities across regions, got %d", len(all))
	}

	scoped, err := svc.FindSummoners(ctx, "双面人", "wt3")
	if err != nil {
		t.Fatalf("find scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Region != "WT3" {
		t.Fatalf("expected the WT3 identity, got %+v", scoped)
	}

	if _, err := svc.FindSummoners(ctx, "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name should be invalid, got %v", err)
	}
	if _, err := svc.FindSummoners(ctx, "双面人", "NA1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown region should be invalid, got %v", err)
	}
}

func TestSummonerService_GetSummoner(t *testing.T) {
	summoners := memory.NewSummonerRepository()
	matches := memory.NewMatchRepository()
	svc := NewSummonerService(summoners, matches, nil, logging.NewNop())
	ctx := context.Background()

	seeded := identityFixture("love丶小文", summoner.SourceRiotAPI, nil)
	_ = summoners.UpsertByKey(ctx, seeded)

	got, err := svc.GetSummoner(ctx, seeded.IdentityKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DisplayName != "love丶小文" {
		t.Fatalf("unexpected summoner: %+v", got)
	}

	if _, err := svc.GetSummoner(ctx, "HN1_missing_riot_api"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetSummoner(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSummonerService_ListMatchesNewestFirst(t *testing.T) {
	summoners := memory.NewSummonerRepository()
	matches := memory.NewMatchRepository()
	svc := NewSummonerService(summoners, matches, nil, logging.NewNop())
	ctx := context.Background()

	identity := identityFixture("love丶小文", summoner.SourceRiotAPI, nil)
	_ = summoners.UpsertByKey(ctx, identity)

	old := matchFixture("old", identity.IdentityKey)
	old.CreatedAt = reconcileNow.Add(-48 * time.Hour)
	recent := matchFixture("recent", identity.IdentityKey)
	recent.CreatedAt = reconcileNow
	other := matchFixture("other", "HN1_someone_else_riot_api")
	_ = matches.UpsertByKey(ctx, old)
	_ = matches.UpsertByKey(ctx, recent)
	_ = matches.UpsertByKey(ctx, other)

	got, err := svc.ListMatches(ctx, identity.IdentityKey)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].MatchKey != "recent" || got[1].MatchKey != "old" {
		t.Fatalf("unexpected order: %s, %s", got[0].MatchKey, got[1].MatchKey)
	}

	if _, err := svc.ListMatches(ctx, "HN1_missing_riot_api"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown identity, got %v", err)
	}
}
