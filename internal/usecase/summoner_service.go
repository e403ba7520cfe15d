package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/cache"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
)

// SummonerService serves the read side: stored identities and their
// match histories.
type SummonerService struct {
	summoners summoner.Repository
	matches   match.Repository
	cache     *cache.Store
	logger    *logging.Logger
}

func NewSummonerService(summoners summoner.Repository, matches match.Repository, cacheStore *cache.Store, logger *logging.Logger) *SummonerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SummonerService{
		summoners: summoners,
		matches:   matches,
		cache:     cacheStore,
		logger:    logger,
	}
}

func (s *SummonerService) ListSummoners(ctx context.Context) ([]summoner.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "SummonerService.ListSummoners")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		keys, err := s.summoners.ListKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list summoners: %v", ErrDependencyUnavailable, err)
		}

		out := make([]summoner.Identity, 0, len(keys))
		for _, key := range keys {
			identity, ok, err := s.summoners.GetByKey(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("%w: load summoner %s: %v", ErrDependencyUnavailable, key, err)
			}
			if ok {
				out = append(out, identity)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
		return out, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]summoner.Identity), nil
	}

	value, err := s.cache.GetOrLoad(ctx, cachePrefixSummoners+"all", load)
	if err != nil {
		return nil, err
	}

	return value.([]summoner.Identity), nil
}

// FindSummoners filters by exact display name, optionally narrowed to a
// region. It hits the repository directly; filtered lookups are not cached.
func (s *SummonerService) FindSummoners(ctx context.Context, displayName, region string) ([]summoner.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "SummonerService.FindSummoners")
	defer span.End()

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	region = strings.ToUpper(strings.TrimSpace(region))
	if region != "" && !summoner.IsValidRegion(region) {
		return nil, fmt.Errorf("%w: unknown region %q", ErrInvalidInput, region)
	}

	identities, err := s.summoners.FindByNameRegion(ctx, displayName, region)
	if err != nil {
		return nil, fmt.Errorf("%w: find summoners %s: %v", ErrDependencyUnavailable, displayName, err)
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i].IdentityKey < identities[j].IdentityKey })

	return identities, nil
}

func (s *SummonerService) GetSummoner(ctx context.Context, identityKey string) (summoner.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "SummonerService.GetSummoner")
	defer span.End()

	identityKey = strings.TrimSpace(identityKey)
	if identityKey == "" {
		return summoner.Identity{}, fmt.Errorf("%w: identity key is required", ErrInvalidInput)
	}

	identity, ok, err := s.summoners.GetByKey(ctx, identityKey)
	if err != nil {
		return summoner.Identity{}, fmt.Errorf("%w: load summoner %s: %v", ErrDependencyUnavailable, identityKey, err)
	}
	if !ok {
		return summoner.Identity{}, fmt.Errorf("%w: summoner %s", ErrNotFound, identityKey)
	}

	return identity, nil
}

func (s *SummonerService) ListMatches(ctx context.Context, identityKey string) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "SummonerService.ListMatches")
	defer span.End()

	if _, err := s.GetSummoner(ctx, identityKey); err != nil {
		return nil, err
	}

	records, err := s.matches.ListReferencing(ctx, identityKey)
	if err != nil {
		return nil, fmt.Errorf("%w: list matches for %s: %v", ErrDependencyUnavailable, identityKey, err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })

	return records, nil
}
