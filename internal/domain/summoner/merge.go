package summoner

import "time"

// MergeInto folds a duplicate identity into the primary and returns the
// merged record. Every rule is monotonic: re-applying the same duplicate is
// a no-op, and no field ever regresses to a worse-known value.
//
// Aggregate stats take the elementwise maximum rather than the sum: two
// sources usually observed the same underlying games, and summing would
// double-count them. Max can under-count truly independent sessions; that
// is a deliberate, conservative policy.
func MergeInto(primary, dup Identity, now time.Time) Identity {
	merged := primary

	merged.RankStats.Solo = betterRank(primary.RankStats.Solo, dup.RankStats.Solo)
	merged.RankStats.Flex = betterRank(primary.RankStats.Flex, dup.RankStats.Flex)

	merged.Aggregate.TotalGames = maxInt(primary.Aggregate.TotalGames, dup.Aggregate.TotalGames)
	merged.Aggregate.TotalWins = maxInt(primary.Aggregate.TotalWins, dup.Aggregate.TotalWins)
	merged.Aggregate.TotalLosses = maxInt(primary.Aggregate.TotalLosses, dup.Aggregate.TotalLosses)

	if merged.ProfileIcon.IsZero() && !dup.ProfileIcon.IsZero() {
		merged.ProfileIcon = dup.ProfileIcon
	}
	if dup.Level > merged.Level {
		merged.Level = dup.Level
	}

	merged.AddSourceHistory(primary.Source)
	for _, src := range dup.SourceHistory {
		merged.AddSourceHistory(src)
	}
	merged.AddSourceHistory(dup.Source)

	// CreatedAt never moves backward in time from the primary's original.
	merged.CreatedAt = primary.CreatedAt
	merged.LastUpdated = now

	return merged
}

// betterRank keeps the current entry unless it is absent or the candidate
// compares strictly higher under the tier/division/points total order.
func betterRank(current, candidate *RankEntry) *RankEntry {
	if candidate == nil || candidate.Tier == "" {
		return current
	}
	if current == nil || current.Tier == "" {
		return cloneRank(candidate)
	}
	if CompareRank(candidate, current) > 0 {
		return cloneRank(candidate)
	}
	return current
}

func cloneRank(entry *RankEntry) *RankEntry {
	if entry == nil {
		return nil
	}
	clone := *entry
	return &clone
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
