package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/cache"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
)

// GroupKeyFunc buckets identities for duplicate detection. Nil means
// exact display name, which the store can answer directly.
type GroupKeyFunc func(summoner.Identity) string

type Counts struct {
	Summoners int `json:"summoners"`
	Matches   int `json:"matches"`
}

type MergeSummary struct {
	DuplicateGroups int `json:"duplicateGroups"`
	MergedSummoners int `json:"mergedSummoners"`
}

type CleanupSummary struct {
	OrphanedMatches int `json:"orphanedMatches"`
	DeletedMatches  int `json:"deletedMatches"`
}

type ReconcileReport struct {
	Before  Counts         `json:"before"`
	Merged  MergeSummary   `json:"merged"`
	Cleanup CleanupSummary `json:"cleanup"`
	After   Counts         `json:"after"`
}

// DuplicateGroup is the read-only preview of one merge candidate set.
type DuplicateGroup struct {
	Name       string   `json:"name"`
	Keys       []string `json:"keys"`
	PrimaryKey string   `json:"primaryKey"`
}

type ReconcileServiceConfig struct {
	Summoners  summoner.Repository
	Matches    match.Repository
	Cache      *cache.Store
	Priorities summoner.SourcePriority
	GroupKey   GroupKeyFunc
	Workers    int
	Now        func() time.Time
	Logger     *logging.Logger
}

// ReconcileService collapses duplicate identities accumulated from
// different sources and removes matches that no surviving identity
// references.
type ReconcileService struct {
	summoners  summoner.Repository
	matches    match.Repository
	cache      *cache.Store
	priorities summoner.SourcePriority
	groupKey   GroupKeyFunc
	workers    int
	now        func() time.Time
	logger     *logging.Logger
}

func NewReconcileService(cfg ReconcileServiceConfig) *ReconcileService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	priorities := cfg.Priorities
	if priorities == nil {
		priorities = summoner.DefaultSourcePriority()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &ReconcileService{
		summoners:  cfg.Summoners,
		matches:    cfg.Matches,
		cache:      cfg.Cache,
		priorities: priorities,
		groupKey:   cfg.GroupKey,
		workers:    workers,
		now:        now,
		logger:     logger,
	}
}

// DuplicateGroups is the dry run: it reports what a merge would touch
// without writing anything.
func (s *ReconcileService) DuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.DuplicateGroups")
	defer span.End()

	groups, err := s.loadGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DuplicateGroup, 0, len(groups))
	for _, group := range groups {
		if len(group.Identities) < 2 {
			continue
		}

		primary := selectPrimary(group.Identities, s.priorities)
		keys := make([]string, 0, len(group.Identities))
		for _, identity := range group.Identities {
			keys = append(keys, identity.IdentityKey)
		}
		out = append(out, DuplicateGroup{
			Name:       group.Name,
			Keys:       keys,
			PrimaryKey: group.Identities[primary].IdentityKey,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// MergeAndCleanup runs the full pass: merge duplicate groups, then
// sweep orphaned matches, bracketed by before and after counts.
func (s *ReconcileService) MergeAndCleanup(ctx context.Context) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.MergeAndCleanup")
	defer span.End()

	before, err := s.counts(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	merged, err := s.Merge(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	cleanup, err := s.CleanupOrphans(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	after, err := s.counts(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	span.SetAttributes(
		attribute.Int("reconcile.merged", merged.MergedSummoners),
		attribute.Int("reconcile.deleted_matches", cleanup.DeletedMatches),
	)

	return ReconcileReport{Before: before, Merged: merged, Cleanup: cleanup, After: after}, nil
}

// Merge processes each duplicate group independently: a failure inside
// one group is logged and skipped so the rest still converge.
func (s *ReconcileService) Merge(ctx context.Context) (MergeSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.Merge")
	defer span.End()

	groups, err := s.loadGroups(ctx)
	if err != nil {
		return MergeSummary{}, err
	}

	var summary MergeSummary
	for _, group := range groups {
		if len(group.Identities) < 2 {
			continue
		}
		summary.DuplicateGroups++

		merged, err := s.mergeGroup(ctx, group)
		if err != nil {
			s.logger.ErrorContext(ctx, "merge group failed", "name", group.Name, "error", err)
			continue
		}
		summary.MergedSummoners += merged
	}

	if summary.MergedSummoners > 0 && s.cache != nil {
		s.cache.DeletePrefix(ctx, cachePrefixSummoners)
	}

	return summary, nil
}

// mergeGroup folds every duplicate into the primary, repoints match
// participants at the surviving key, and only then deletes the losers.
// A crash between the rewrite and the delete leaves extra identities
// behind, never dangling matches; the next run finishes the job.
func (s *ReconcileService) mergeGroup(ctx context.Context, group summoner.NameGroup) (int, error) {
	primaryIdx := selectPrimary(group.Identities, s.priorities)
	primary := group.Identities[primaryIdx]

	now := s.now().UTC()
	duplicates := make([]summoner.Identity, 0, len(group.Identities)-1)
	for i, identity := range group.Identities {
		if i == primaryIdx {
			continue
		}
		primary = summoner.MergeInto(primary, identity, now)
		duplicates = append(duplicates, identity)
	}

	if err := s.summoners.UpsertByKey(ctx, primary); err != nil {
		return 0, fmt.Errorf("%w: store merged summoner %s: %v", ErrDependencyUnavailable, primary.IdentityKey, err)
	}

	merged := 0
	for _, dup := range duplicates {
		rewritten, err := s.matches.RewriteParticipantKey(ctx, dup.IdentityKey, primary.IdentityKey)
		if err != nil {
			return merged, fmt.Errorf("%w: rewrite matches for %s: %v", ErrDependencyUnavailable, dup.IdentityKey, err)
		}
		if err := s.summoners.DeleteByKey(ctx, dup.IdentityKey); err != nil {
			return merged, fmt.Errorf("%w: delete duplicate %s: %v", ErrDependencyUnavailable, dup.IdentityKey, err)
		}
		merged++

		s.logger.InfoContext(ctx, "merged duplicate summoner",
			"name", group.Name,
			"primary", primary.IdentityKey,
			"duplicate", dup.IdentityKey,
			"rewritten_matches", rewritten)
	}

	return merged, nil
}

// CleanupOrphans deletes matches whose participants all point at
// missing identities. A match with even one surviving participant
// stays. Safe to run any number of times.
func (s *ReconcileService) CleanupOrphans(ctx context.Context) (CleanupSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.CleanupOrphans")
	defer span.End()

	keys, err := s.summoners.ListKeys(ctx)
	if err != nil {
		return CleanupSummary{}, fmt.Errorf("%w: list summoner keys: %v", ErrDependencyUnavailable, err)
	}
	alive := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		alive[key] = struct{}{}
	}

	records, err := s.matches.List(ctx)
	if err != nil {
		return CleanupSummary{}, fmt.Errorf("%w: list matches: %v", ErrDependencyUnavailable, err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return CleanupSummary{}, fmt.Errorf("%w: start worker pool: %v", ErrDependencyUnavailable, err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		orphaned []string
		wg       sync.WaitGroup
	)
	for _, rec := range records {
		rec := rec
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if isOrphaned(rec, alive) {
				mu.Lock()
				orphaned = append(orphaned, rec.MatchKey)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			return CleanupSummary{}, fmt.Errorf("%w: submit orphan scan: %v", ErrDependencyUnavailable, submitErr)
		}
	}
	wg.Wait()
	sort.Strings(orphaned)

	summary := CleanupSummary{OrphanedMatches: len(orphaned)}
	for _, key := range orphaned {
		if err := s.matches.DeleteByKey(ctx, key); err != nil {
			return summary, fmt.Errorf("%w: delete orphaned match %s: %v", ErrDependencyUnavailable, key, err)
		}
		summary.DeletedMatches++
	}

	if summary.DeletedMatches > 0 {
		s.logger.InfoContext(ctx, "orphaned matches removed", "count", summary.DeletedMatches)
	}

	return summary, nil
}

func isOrphaned(rec match.Record, alive map[string]struct{}) bool {
	if len(rec.Participants) == 0 {
		return true
	}
	for _, p := range rec.Participants {
		if _, ok := alive[p.IdentityKey]; ok {
			return false
		}
	}
	return true
}

func (s *ReconcileService) loadGroups(ctx context.Context) ([]summoner.NameGroup, error) {
	if s.groupKey == nil {
		groups, err := s.summoners.GroupedByDisplayName(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: group summoners: %v", ErrDependencyUnavailable, err)
		}
		return groups, nil
	}

	keys, err := s.summoners.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list summoner keys: %v", ErrDependencyUnavailable, err)
	}

	buckets := make(map[string][]summoner.Identity)
	order := make([]string, 0)
	for _, key := range keys {
		identity, ok, err := s.summoners.GetByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: load summoner %s: %v", ErrDependencyUnavailable, key, err)
		}
		if !ok {
			continue
		}

		bucket := s.groupKey(identity)
		if _, seen := buckets[bucket]; !seen {
			order = append(order, bucket)
		}
		buckets[bucket] = append(buckets[bucket], identity)
	}

	out := make([]summoner.NameGroup, 0, len(order))
	for _, bucket := range order {
		out = append(out, summoner.NameGroup{Name: bucket, Identities: buckets[bucket]})
	}

	return out, nil
}

// counts reads both stores concurrently. Failures collapse into the
// first error seen.
func (s *ReconcileService) counts(ctx context.Context) (Counts, error) {
	var (
		out      Counts
		sumErr   error
		matchErr error
		wg       conc.WaitGroup
	)
	wg.Go(func() {
		out.Summoners, sumErr = s.summoners.Count(ctx)
	})
	wg.Go(func() {
		out.Matches, matchErr = s.matches.Count(ctx)
	})
	wg.Wait()

	if sumErr != nil {
		return Counts{}, fmt.Errorf("%w: count summoners: %v", ErrDependencyUnavailable, sumErr)
	}
	if matchErr != nil {
		return Counts{}, fmt.Errorf("%w: count matches: %v", ErrDependencyUnavailable, matchErr)
	}

	return out, nil
}

// selectPrimary picks the survivor deterministically: ranked beats
// unranked, then higher source priority, then fresher LastUpdated, then
// earlier position in the group.
func selectPrimary(identities []summoner.Identity, priorities summoner.SourcePriority) int {
	best := 0
	for i := 1; i < len(identities); i++ {
		if beats(identities[i], identities[best], priorities) {
			best = i
		}
	}
	return best
}

func beats(a, b summoner.Identity, priorities summoner.SourcePriority) bool {
	aRanked, bRanked := a.RankStats.HasAny(), b.RankStats.HasAny()
	if aRanked != bRanked {
		return aRanked
	}

	aPrio, bPrio := priorities.Of(a.Source), priorities.Of(b.Source)
	if aPrio != bPrio {
		return aPrio > bPrio
	}

	return a.LastUpdated.After(b.LastUpdated)
}
