package riotapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/platform/resilience"
	"github.com/riftwatch/rift-ledger/internal/source"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		APIKey:         "RGAPI-test-key",
		MatchWindow:    2,
		RequestsPerSec: 1000,
		Logger:         logging.NewNop(),
	})
}

func riotFixtureHandler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/lol/summoner/v4/summoners/by-name/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "RGAPI-test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"sum-1","puuid":"puuid-1","name":"love丶小文","profileIconId":588,"summonerLevel":187}`))
	})
	mux.HandleFunc("/lol/league/v4/entries/by-summoner/sum-1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"queueType":"RANKED_SOLO_5x5","tier":"GOLD","rank":"III","leaguePoints":42,"wins":60,"losses":40},
			{"queueType":"RANKED_FLEX_SR","tier":"SILVER","rank":"I","leaguePoints":10,"wins":12,"losses":8}
		]`))
	})
	mux.HandleFunc("/lol/match/v5/matches/by-puuid/puuid-1/ids", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["KR_100","KR_101"]`))
	})
	mux.HandleFunc("/lol/match/v5/matches/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/lol/match/v5/matches/")
		_, _ = w.Write([]byte(`{
			"metadata":{"matchId":"` + id + `"},
			"info":{
				"gameCreation":1767250800000,"gameDuration":1820,"gameMode":"CLASSIC","queueId":420,"mapId":11,
				"participants":[
					{"puuid":"puuid-1","summonerName":"love丶小文","teamId":100,"championId":222,"championName":"Jinx","champLevel":16,"teamPosition":"BOTTOM","win":true,"kills":9,"deaths":3,"assists":7,"totalDamageDealtToChampions":31000,"goldEarned":14200,"totalMinionsKilled":231,"visionScore":22,"item0":3031,"item6":3363,"summoner1Id":4,"summoner2Id":7},
					{"puuid":"puuid-other","summonerName":"teammate","teamId":100}
				],
				"teams":[
					{"teamId":100,"win":true,"objectives":{"baron":{"first":true,"kills":1},"dragon":{"first":false,"kills":3},"tower":{"first":true,"kills":9}}},
					{"teamId":200,"win":false,"objectives":{"baron":{"first":false,"kills":0},"dragon":{"first":true,"kills":2},"tower":{"first":false,"kills":3}}}
				]
			}
		}`))
	})
	return mux
}

func TestClient_FetchHappyPath(t *testing.T) {
	client := newTestClient(t, riotFixtureHandler(t))

	result, err := client.Fetch(context.Background(), "love丶小文", "HN1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	identity := result.Identity
	if err := identity.Validate(); err != nil {
		t.Fatalf("invalid identity: %v", err)
	}
	if identity.IdentityKey != "HN1_love丶小文_riot_api_sum-1" {
		t.Fatalf("unexpected key: %s", identity.IdentityKey)
	}
	if identity.Level != 187 {
		t.Fatalf("level = %d, want 187", identity.Level)
	}
	solo := identity.RankStats.Solo
	if solo == nil || solo.Tier != summoner.TierGold || solo.Division != summoner.DivisionIII || solo.LeaguePoints != 42 {
		t.Fatalf("solo rank = %+v", solo)
	}
	if identity.RankStats.Flex == nil || identity.RankStats.Flex.Tier != summoner.TierSilver {
		t.Fatalf("flex rank = %+v", identity.RankStats.Flex)
	}
	if identity.Aggregate.TotalGames != 120 || identity.Aggregate.TotalWins != 72 {
		t.Fatalf("aggregate = %+v", identity.Aggregate)
	}

	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(result.Matches))
	}
	rec := result.Matches[0]
	if rec.MatchKey != "KR_100" {
		t.Fatalf("unexpected match key: %s", rec.MatchKey)
	}
	// Only the requested player's line survives normalization.
	if len(rec.Participants) != 1 || rec.Participants[0].IdentityKey != identity.IdentityKey {
		t.Fatalf("unexpected participants: %+v", rec.Participants)
	}
	if rec.Participants[0].Kills != 9 || rec.Participants[0].ChampionName != "Jinx" {
		t.Fatalf("participant stats lost: %+v", rec.Participants[0])
	}
	if len(rec.Participants[0].Items) != 7 {
		t.Fatalf("expected all 7 item slots, got %d", len(rec.Participants[0].Items))
	}
	if len(rec.Teams) != 2 || rec.Teams[0].TowerKills != 9 || !rec.Teams[0].FirstBaron {
		t.Fatalf("team objectives lost: %+v", rec.Teams)
	}
}

func TestClient_MissingAPIKeyFailsFast(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		RequestsPerSec: 1000,
		Logger:         logging.NewNop(),
	})

	_, err := client.Fetch(context.Background(), "anyone", "HN1")
	if !errors.Is(err, source.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatal("request sent despite missing key")
	}
}

func TestClient_StatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, source.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, source.ErrAuthRejected},
		{"forbidden", http.StatusForbidden, source.ErrAuthRejected},
		{"rate limited", http.StatusTooManyRequests, source.ErrRateLimited},
		{"server error", http.StatusInternalServerError, source.ErrUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.Fetch(context.Background(), "anyone", "HN1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("status %d classified as %v, want %v", tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestClient_AuthRejectionNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		APIKey:         "RGAPI-test-key",
		MaxRetries:     3,
		RequestsPerSec: 1000,
		Logger:         logging.NewNop(),
	})

	_, err := client.Fetch(context.Background(), "anyone", "HN1")
	if !errors.Is(err, source.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("rejected credentials retried %d times", hits.Load())
	}
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		APIKey:         "RGAPI-test-key",
		RequestsPerSec: 1000,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 5},
		Logger:         logging.NewNop(),
	})

	// Each Fetch issues one summoner request that records one failure.
	for i := 0; i < 5; i++ {
		if _, err := client.Fetch(context.Background(), "anyone", "HN1"); err == nil {
			t.Fatal("expected failure")
		}
	}
	before := hits.Load()

	if _, err := client.Fetch(context.Background(), "anyone", "HN1"); !errors.Is(err, source.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable from open circuit, got %v", err)
	}
	if hits.Load() != before {
		t.Fatal("open circuit still sent requests")
	}
}
