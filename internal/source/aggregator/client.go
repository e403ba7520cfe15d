// Package aggregator pulls profiles from a third-party stats site's
// internal JSON API. Coverage is good but the endpoints are unversioned
// and can disappear without notice.
package aggregator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/source"
)

const defaultBaseURL = "https://lol-web-api.op.gg/api/v1.0/internal/bypass"

type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *logging.Logger
}

type Client struct {
	client    *fasthttp.Client
	baseURL   string
	timeout   time.Duration
	userAgent string
	logger    *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	return &Client{
		client:    &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		baseURL:   baseURL,
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger,
	}
}

func (c *Client) Kind() summoner.Source {
	return summoner.SourceAggregator
}

func (c *Client) Fetch(ctx context.Context, name, region string) (source.Result, error) {
	site := siteRegion(region)

	var search autocompleteResponse
	searchPath := fmt.Sprintf("/summoners/%s/autocomplete?keyword=%s", site, url.QueryEscape(name))
	if err := c.getJSON(ctx, searchPath, &search); err != nil {
		return source.Result{}, fmt.Errorf("aggregator search %q: %w", name, err)
	}

	var hit *aggSummoner
	for i := range search.Data {
		if strings.EqualFold(search.Data[i].Name, name) {
			hit = &search.Data[i]
			break
		}
	}
	if hit == nil {
		return source.Result{}, crerr.Wrapf(source.ErrNotFound, "aggregator has no summoner %q", name)
	}

	var league leagueStatsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/summoners/%s/%s/league-stats", site, hit.SummonerID), &league); err != nil {
		c.logger.WarnContext(ctx, "aggregator league stats unavailable", "summoner", name, "error", err)
	}

	return source.Result{Identity: normalize(*hit, league.Data, name, region)}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return crerr.Wrapf(source.ErrUnreachable, "send request: %v", err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusNotFound:
		return crerr.Wrap(source.ErrNotFound, "aggregator returned 404")
	case fasthttp.StatusTooManyRequests:
		return crerr.Wrap(source.ErrRateLimited, "aggregator returned 429")
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden:
		return crerr.Wrapf(source.ErrAuthRejected, "aggregator returned %d", resp.StatusCode())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return crerr.Wrapf(source.ErrUnreachable, "aggregator status=%d", resp.StatusCode())
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return crerr.Wrapf(source.ErrUnreachable, "decompress body: %v", err)
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return crerr.Wrapf(source.ErrUnreachable, "decode aggregator payload: %v", err)
	}

	return nil
}

func normalize(hit aggSummoner, stats []leagueStat, name, region string) summoner.Identity {
	displayName := hit.Name
	if displayName == "" {
		displayName = name
	}

	now := time.Now().UTC()
	identity := summoner.Identity{
		IdentityKey: summoner.BuildIdentityKey(summoner.SourceAggregator, region, displayName, hit.SummonerID),
		DisplayName: displayName,
		Level:       maxInt(hit.Level, 1),
		Region:      region,
		Source:      summoner.SourceAggregator,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if hit.ProfileImageURL != "" {
		identity.ProfileIcon = summoner.ProfileIcon{IconURL: hit.ProfileImageURL}
	}

	for _, stat := range stats {
		total := stat.Win + stat.Lose
		winRate := 0
		if total > 0 {
			winRate = int(float64(stat.Win)/float64(total)*100 + 0.5)
		}
		entry := &summoner.RankEntry{
			Tier:         summoner.Tier(strings.ToUpper(stat.TierInfo.Tier)),
			Division:     divisionFromOrdinal(stat.TierInfo.Division),
			LeaguePoints: stat.TierInfo.LP,
			Wins:         stat.Win,
			Losses:       stat.Lose,
			WinRate:      winRate,
		}

		switch stat.QueueInfo.GameType {
		case "SOLORANKED":
			identity.RankStats.Solo = entry
		case "FLEXRANKED":
			identity.RankStats.Flex = entry
		}
		identity.Aggregate.TotalWins += stat.Win
		identity.Aggregate.TotalLosses += stat.Lose
	}
	identity.Aggregate.TotalGames = identity.Aggregate.TotalWins + identity.Aggregate.TotalLosses

	return identity
}

// The site encodes divisions as 1..4 counting down from I.
func divisionFromOrdinal(n int) summoner.Division {
	switch n {
	case 1:
		return summoner.DivisionI
	case 2:
		return summoner.DivisionII
	case 3:
		return summoner.DivisionIII
	case 4:
		return summoner.DivisionIV
	default:
		return ""
	}
}

// siteRegion maps internal region codes onto the site's shard names.
// Mainland shards are not mirrored there, so kr is the closest proxy.
func siteRegion(string) string {
	return "kr"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
