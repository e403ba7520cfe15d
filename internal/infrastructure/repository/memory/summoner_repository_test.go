package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

func seedIdentity(key, name string, src summoner.Source) summoner.Identity {
	now := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
	return summoner.Identity{
		IdentityKey: key,
		DisplayName: name,
		Level:       30,
		Region:      "HN1",
		Source:      src,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

func TestSummonerRepository_UpsertPreservesInsertionOrder(t *testing.T) {
	repo := NewSummonerRepository()
	ctx := context.Background()

	_ = repo.UpsertByKey(ctx, seedIdentity("k1", "a", summoner.SourceRiotAPI))
	_ = repo.UpsertByKey(ctx, seedIdentity("k2", "b", summoner.SourceWebScrape))
	// Re-upserting an existing key must not move it to the back.
	_ = repo.UpsertByKey(ctx, seedIdentity("k1", "a2", summoner.SourceRiotAPI))

	keys, err := repo.ListKeys(ctx)
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("unexpected key order: %v", keys)
	}

	got, ok, _ := repo.GetByKey(ctx, "k1")
	if !ok || got.DisplayName != "a2" {
		t.Fatalf("upsert did not replace the document: %+v", got)
	}
}

func TestSummonerRepository_GroupedByDisplayName(t *testing.T) {
	repo := NewSummonerRepository()
	ctx := context.Background()

	_ = repo.UpsertByKey(ctx, seedIdentity("k1", "love丶小文", summoner.SourceRiotAPI))
	_ = repo.UpsertByKey(ctx, seedIdentity("k2", "夜未央", summoner.SourceRiotAPI))
	_ = repo.UpsertByKey(ctx, seedIdentity("k3", "love丶小文", summoner.SourceWebScrape))

	groups, err := repo.GroupedByDisplayName(ctx)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "love丶小文" || len(groups[0].Identities) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Name != "夜未央" || len(groups[1].Identities) != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}

func TestSummonerRepository_FindByNameRegion(t *testing.T) {
	repo := NewSummonerRepository()
	ctx := context.Background()

	target := seedIdentity("k1", "love丶小文", summoner.SourceRiotAPI)
	other := seedIdentity("k2", "love丶小文", summoner.SourceWebScrape)
	other.Region = "WT1"
	_ = repo.UpsertByKey(ctx, target)
	_ = repo.UpsertByKey(ctx, other)

	found, err := repo.FindByNameRegion(ctx, "love丶小文", "HN1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0].IdentityKey != "k1" {
		t.Fatalf("unexpected result: %+v", found)
	}
}

func TestSummonerRepository_DeleteByKey(t *testing.T) {
	repo := NewSummonerRepository()
	ctx := context.Background()

	_ = repo.UpsertByKey(ctx, seedIdentity("k1", "a", summoner.SourceRiotAPI))
	_ = repo.UpsertByKey(ctx, seedIdentity("k2", "b", summoner.SourceRiotAPI))

	if err := repo.DeleteByKey(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting a missing key is a no-op, not an error.
	if err := repo.DeleteByKey(ctx, "k1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected 1 left, got %d", n)
	}
	keys, _ := repo.ListKeys(ctx)
	if len(keys) != 1 || keys[0] != "k2" {
		t.Fatalf("order not compacted: %v", keys)
	}
}

func TestSummonerRepository_ReturnsCopies(t *testing.T) {
	repo := NewSummonerRepository()
	ctx := context.Background()

	seeded := seedIdentity("k1", "a", summoner.SourceRiotAPI)
	seeded.RankStats.Solo = &summoner.RankEntry{Tier: summoner.TierGold, Division: summoner.DivisionII}
	_ = repo.UpsertByKey(ctx, seeded)

	got, _, _ := repo.GetByKey(ctx, "k1")
	got.RankStats.Solo.Tier = summoner.TierIron

	again, _, _ := repo.GetByKey(ctx, "k1")
	if again.RankStats.Solo.Tier != summoner.TierGold {
		t.Fatal("mutating a returned document leaked into the store")
	}
}
