// Package riotapi is the first-party API adapter: authenticated requests
// against a stable schema, client-side rate limiting, and fail-fast on
// credential rejection.
package riotapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/platform/resilience"
	"github.com/riftwatch/rift-ledger/internal/source"
)

const (
	defaultBaseURL     = "https://kr.api.riotgames.com"
	defaultMatchWindow = 5
	iconURLTemplate    = "https://ddragon.leagueoflegends.com/cdn/13.18.1/img/profileicon/%d.png"

	queueSolo = "RANKED_SOLO_5x5"
	queueFlex = "RANKED_FLEX_SR"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	MatchWindow    int
	RequestsPerSec float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	matchWindow    int
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	matchWindow := cfg.MatchWindow
	if matchWindow <= 0 {
		matchWindow = defaultMatchWindow
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		// The public development key allows roughly one request per second.
		rps = 1
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		matchWindow:    matchWindow,
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Kind() summoner.Source {
	return summoner.SourceRiotAPI
}

func (c *Client) Fetch(ctx context.Context, name, region string) (source.Result, error) {
	if c.apiKey == "" {
		return source.Result{}, crerr.Wrap(source.ErrAuthRejected, "api key is not configured")
	}

	var sum riotSummoner
	path := "/lol/summoner/v4/summoners/by-name/" + url.PathEscape(name)
	if err := c.doJSON(ctx, path, &sum); err != nil {
		return source.Result{}, fmt.Errorf("fetch summoner %q: %w", name, err)
	}

	// Rank and match history are best-effort: the identity is still usable
	// without them, matching the upstream behavior of the tracker.
	var entries []leagueEntry
	if err := c.doJSON(ctx, "/lol/league/v4/entries/by-summoner/"+url.PathEscape(sum.ID), &entries); err != nil {
		if crerr.Is(err, source.ErrAuthRejected) {
			return source.Result{}, err
		}
		c.logger.WarnContext(ctx, "riot league entries unavailable", "summoner", name, "error", err)
	}

	matches, err := c.fetchMatches(ctx, sum.PUUID)
	if err != nil {
		if crerr.Is(err, source.ErrAuthRejected) {
			return source.Result{}, err
		}
		c.logger.WarnContext(ctx, "riot match history unavailable", "summoner", name, "error", err)
	}

	identity := c.normalizeIdentity(sum, entries, name, region)
	records := make([]match.Record, 0, len(matches))
	for _, m := range matches {
		if rec, ok := normalizeMatch(m, sum.PUUID, identity.IdentityKey); ok {
			records = append(records, rec)
		}
	}

	return source.Result{Identity: identity, Matches: records}, nil
}

func (c *Client) fetchMatches(ctx context.Context, puuid string) ([]riotMatch, error) {
	var ids []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?count=%d", url.PathEscape(puuid), c.matchWindow)
	if err := c.doJSON(ctx, path, &ids); err != nil {
		return nil, err
	}

	out := make([]riotMatch, 0, len(ids))
	for _, id := range ids {
		var m riotMatch
		if err := c.doJSON(ctx, "/lol/match/v5/matches/"+url.PathEscape(id), &m); err != nil {
			if crerr.Is(err, source.ErrAuthRejected) {
				return out, err
			}
			c.logger.WarnContext(ctx, "riot match detail failed", "match_id", id, "error", err)
			continue
		}
		out = append(out, m)
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return crerr.Wrap(source.ErrUnreachable, "riot circuit breaker open")
		}
	}

	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if c.circuitEnabled {
		if err != nil && !crerr.Is(err, source.ErrNotFound) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(source.ErrUnreachable, "decode riot payload: %v", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrapf(source.ErrUnreachable, "rate limiter wait: %v", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("X-Riot-Token", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(source.ErrUnreachable, "send request: %v", sanitize(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(source.ErrUnreachable, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrap(source.ErrNotFound, "riot returned 404")
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				// Fatal for this adapter, never retried.
				return nil, crerr.Wrapf(source.ErrAuthRejected, "riot returned %d", resp.StatusCode)
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = crerr.Wrap(source.ErrRateLimited, "riot returned 429")
			default:
				lastErr = crerr.Wrapf(source.ErrUnreachable, "riot status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrapf(source.ErrUnreachable, "request cancelled: %v", ctx.Err())
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(source.ErrUnreachable, "riot request failed")
	}
	return nil, lastErr
}

func (c *Client) normalizeIdentity(sum riotSummoner, entries []leagueEntry, name, region string) summoner.Identity {
	displayName := sum.Name
	if displayName == "" {
		displayName = name
	}

	now := time.Now().UTC()
	identity := summoner.Identity{
		IdentityKey: summoner.BuildIdentityKey(summoner.SourceRiotAPI, region, displayName, sum.ID),
		DisplayName: displayName,
		Level:       maxInt(sum.SummonerLevel, 1),
		Region:      region,
		Source:      summoner.SourceRiotAPI,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if sum.ProfileIconID > 0 {
		identity.ProfileIcon = summoner.ProfileIcon{
			IconID:  sum.ProfileIconID,
			IconURL: fmt.Sprintf(iconURLTemplate, sum.ProfileIconID),
		}
	}

	for _, entry := range entries {
		rank := normalizeRank(entry)
		switch entry.QueueType {
		case queueSolo:
			identity.RankStats.Solo = rank
		case queueFlex:
			identity.RankStats.Flex = rank
		}
		identity.Aggregate.TotalWins += entry.Wins
		identity.Aggregate.TotalLosses += entry.Losses
	}
	identity.Aggregate.TotalGames = identity.Aggregate.TotalWins + identity.Aggregate.TotalLosses

	return identity
}

func normalizeRank(entry leagueEntry) *summoner.RankEntry {
	total := entry.Wins + entry.Losses
	winRate := 0
	if total > 0 {
		winRate = int(float64(entry.Wins)/float64(total)*100 + 0.5)
	}
	return &summoner.RankEntry{
		Tier:         summoner.Tier(entry.Tier),
		Division:     summoner.Division(entry.Rank),
		LeaguePoints: entry.LeaguePoints,
		Wins:         entry.Wins,
		Losses:       entry.Losses,
		WinRate:      winRate,
	}
}

func normalizeMatch(m riotMatch, puuid, identityKey string) (match.Record, bool) {
	var self *riotParticipant
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			self = &m.Info.Participants[i]
			break
		}
	}
	if self == nil || m.Metadata.MatchID == "" {
		return match.Record{}, false
	}

	items := make([]match.Item, 0, 7)
	for slot, itemID := range []int{self.Item0, self.Item1, self.Item2, self.Item3, self.Item4, self.Item5, self.Item6} {
		items = append(items, match.Item{Slot: slot, ItemID: itemID})
	}

	rec := match.Record{
		MatchKey:        m.Metadata.MatchID,
		GameMode:        m.Info.GameMode,
		QueueID:         m.Info.QueueID,
		MapID:           m.Info.MapID,
		CreatedAt:       time.UnixMilli(m.Info.GameCreation).UTC(),
		DurationSeconds: m.Info.GameDuration,
		Participants: []match.Participant{{
			IdentityKey:   identityKey,
			DisplayName:   self.SummonerName,
			TeamID:        self.TeamID,
			ChampionID:    self.ChampionID,
			ChampionName:  self.ChampionName,
			ChampionLevel: self.ChampLevel,
			Lane:          match.Lane(self.Lane),
			Win:           self.Win,
			Kills:         self.Kills,
			Deaths:        self.Deaths,
			Assists:       self.Assists,
			DamageDealt:   self.TotalDamageDealtToChampions,
			GoldEarned:    self.GoldEarned,
			CreepScore:    self.TotalMinionsKilled,
			VisionScore:   self.VisionScore,
			Items:         items,
			Spell1ID:      self.Summoner1ID,
			Spell2ID:      self.Summoner2ID,
		}},
		LastUpdated: time.Now().UTC(),
	}

	for _, team := range m.Info.Teams {
		rec.Teams = append(rec.Teams, match.TeamStats{
			TeamID:      team.TeamID,
			Win:         team.Win,
			BaronKills:  team.Objectives.Baron.Kills,
			DragonKills: team.Objectives.Dragon.Kills,
			TowerKills:  team.Objectives.Tower.Kills,
			FirstBaron:  team.Objectives.Baron.First,
			FirstDragon: team.Objectives.Dragon.First,
			FirstTower:  team.Objectives.Tower.First,
		})
	}

	return rec, true
}

func sanitize(value, secret string) string {
	if secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
