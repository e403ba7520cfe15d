package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(sql.ErrNoRows))
	assert.False(t, isNotFound(fmt.Errorf("pq: connection refused")))
	assert.False(t, isNotFound(nil))
}

func TestSummonerModelRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 7, 10, 0, 0, 0, time.UTC)
	identity := summoner.Identity{
		IdentityKey: "HN1_love丶小文_riot_api",
		DisplayName: "love丶小文",
		Level:       187,
		Region:      "HN1",
		Source:      summoner.SourceRiotAPI,
		RankStats: summoner.RankStats{
			Solo: &summoner.RankEntry{Tier: summoner.TierGold, Division: summoner.DivisionIII, LeaguePoints: 42},
		},
		SourceHistory: []summoner.Source{summoner.SourceWebScrape},
		CreatedAt:     now,
		LastUpdated:   now,
	}

	model, err := newSummonerModel(identity)
	require.NoError(t, err)
	assert.Equal(t, identity.IdentityKey, model.IdentityKey)
	assert.Equal(t, identity.DisplayName, model.DisplayName)
	assert.Equal(t, identity.Region, model.Region)
	assert.Equal(t, string(identity.Source), model.Source)

	decoded, err := model.toDomain()
	require.NoError(t, err)
	require.NotNil(t, decoded.RankStats.Solo)
	assert.Equal(t, 42, decoded.RankStats.Solo.LeaguePoints)
	assert.Equal(t, identity.SourceHistory, decoded.SourceHistory)
	assert.True(t, decoded.CreatedAt.Equal(now))
}

func TestMatchModelParticipantKeys(t *testing.T) {
	rec := match.Record{
		MatchKey:        "KR_1",
		GameMode:        "CLASSIC",
		DurationSeconds: 1800,
		Participants: []match.Participant{
			{IdentityKey: "p1"},
			{IdentityKey: "p2"},
		},
	}

	model, err := newMatchModel(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, []string(model.ParticipantKeys))

	decoded, err := model.toDomain()
	require.NoError(t, err)
	require.Len(t, decoded.Participants, 2)
	assert.Equal(t, "p2", decoded.Participants[1].IdentityKey)
}
