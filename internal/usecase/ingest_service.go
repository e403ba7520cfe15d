package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/cache"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/source"
)

const (
	maxNameLength = 20

	cachePrefixSummoners = "summoners:"
)

// SourceAttempt records one failed adapter before the chain moved on.
type SourceAttempt struct {
	Source summoner.Source      `json:"source"`
	Reason source.FailureReason `json:"reason"`
}

type IngestResult struct {
	Identity   summoner.Identity `json:"identity"`
	MatchCount int               `json:"matchCount"`
	Attempts   []SourceAttempt   `json:"attempts,omitempty"`
	Degraded   bool              `json:"degraded"`
}

type BatchItemResult struct {
	Name   string        `json:"name"`
	Result *IngestResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type BatchResult struct {
	Requested int               `json:"requested"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}

type IngestServiceConfig struct {
	Adapters       []source.Adapter
	Summoners      summoner.Repository
	Matches        match.Repository
	Cache          *cache.Store
	MaxBatchSize   int
	BatchItemDelay time.Duration
	Logger         *logging.Logger
}

// IngestService walks the adapter chain for a requested player and
// persists whatever the first succeeding source produced. The chain is
// strictly sequential: a cheap source that answers saves the cost of
// every source behind it.
type IngestService struct {
	adapters       []source.Adapter
	summoners      summoner.Repository
	matches        match.Repository
	cache          *cache.Store
	maxBatchSize   int
	batchItemDelay time.Duration
	logger         *logging.Logger
}

func NewIngestService(cfg IngestServiceConfig) *IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	maxBatchSize := cfg.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = 10
	}

	return &IngestService{
		adapters:       cfg.Adapters,
		summoners:      cfg.Summoners,
		matches:        cfg.Matches,
		cache:          cfg.Cache,
		maxBatchSize:   maxBatchSize,
		batchItemDelay: cfg.BatchItemDelay,
		logger:         logger,
	}
}

func (s *IngestService) IngestSummoner(ctx context.Context, name, region string) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestService.IngestSummoner")
	defer span.End()

	name = strings.TrimSpace(name)
	if err := validateRequest(name, region); err != nil {
		return IngestResult{}, err
	}
	span.SetAttributes(attribute.String("summoner.name", name), attribute.String("summoner.region", region))

	result, err := s.fetchWithFallback(ctx, name, region)
	if err != nil {
		return IngestResult{}, err
	}

	if err := s.persist(ctx, result.Identity, result.Matches); err != nil {
		return IngestResult{}, err
	}

	attempts := result.Attempts
	out := IngestResult{
		Identity:   result.Identity,
		MatchCount: len(result.Matches),
		Attempts:   attempts,
		Degraded:   len(attempts) > 0,
	}

	s.logger.InfoContext(ctx, "summoner ingested",
		"summoner", name,
		"region", region,
		"source", string(result.Identity.Source),
		"matches", out.MatchCount,
		"degraded", out.Degraded)

	return out, nil
}

// IngestBatch rejects oversized batches before touching any adapter,
// then processes the names one at a time with a pause between items so
// the chain's upstream sources see a crawl, not a burst. One bad name
// does not abort the rest.
func (s *IngestService) IngestBatch(ctx context.Context, names []string, region string) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestService.IngestBatch")
	defer span.End()

	if len(names) == 0 {
		return BatchResult{}, fmt.Errorf("%w: batch is empty", ErrInvalidInput)
	}
	if len(names) > s.maxBatchSize {
		return BatchResult{}, fmt.Errorf("%w: batch size %d exceeds limit %d", ErrInvalidInput, len(names), s.maxBatchSize)
	}

	out := BatchResult{Requested: len(names), Items: make([]BatchItemResult, 0, len(names))}
	for i, name := range names {
		if i > 0 && s.batchItemDelay > 0 {
			if err := sleepCtx(ctx, s.batchItemDelay); err != nil {
				return out, fmt.Errorf("batch cancelled after %d items: %w", i, err)
			}
		}

		item := BatchItemResult{Name: name}
		res, err := s.IngestSummoner(ctx, name, region)
		if err != nil {
			item.Error = err.Error()
			out.Failed++
		} else {
			item.Result = &res
			out.Succeeded++
		}
		out.Items = append(out.Items, item)
	}

	return out, nil
}

type chainOutcome struct {
	Identity summoner.Identity
	Matches  []match.Record
	Attempts []SourceAttempt
}

func (s *IngestService) fetchWithFallback(ctx context.Context, name, region string) (chainOutcome, error) {
	var attempts []SourceAttempt
	for _, adapter := range s.adapters {
		result, err := adapter.Fetch(ctx, name, region)
		if err != nil {
			reason := source.Classify(err)
			attempts = append(attempts, SourceAttempt{Source: adapter.Kind(), Reason: reason})
			s.logger.WarnContext(ctx, "source adapter failed",
				"source", string(adapter.Kind()),
				"reason", string(reason),
				"summoner", name,
				"error", err)
			continue
		}

		return chainOutcome{Identity: result.Identity, Matches: result.Matches, Attempts: attempts}, nil
	}

	// Unreachable when the chain ends with the synthetic generator.
	return chainOutcome{}, fmt.Errorf("%w: all %d sources failed for %q", ErrDependencyUnavailable, len(s.adapters), name)
}

func (s *IngestService) persist(ctx context.Context, identity summoner.Identity, records []match.Record) error {
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.summoners.UpsertByKey(ctx, identity); err != nil {
		return fmt.Errorf("%w: store summoner: %v", ErrDependencyUnavailable, err)
	}

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid match record", "match_key", rec.MatchKey, "error", err)
			continue
		}
		if err := s.matches.UpsertByKey(ctx, rec); err != nil {
			return fmt.Errorf("%w: store match %s: %v", ErrDependencyUnavailable, rec.MatchKey, err)
		}
	}

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, cachePrefixSummoners)
	}

	return nil
}

func validateRequest(name, region string) error {
	if name == "" {
		return fmt.Errorf("%w: summoner name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("%w: summoner name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	if !summoner.IsValidRegion(region) {
		return fmt.Errorf("%w: unknown region %q", ErrInvalidInput, region)
	}

	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
