// Package source defines the single capability every upstream adapter
// implements, and the failure taxonomy the fallback orchestrator classifies
// adapter errors into.
package source

import (
	"context"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

// Result is one normalized fetch: a canonical identity plus the window of
// matches the upstream exposed for it.
type Result struct {
	Identity summoner.Identity
	Matches  []match.Record
}

// Adapter is a pure fetch+parse implementation for exactly one upstream
// source. Adapters never persist anything; persistence belongs to the
// orchestrator.
type Adapter interface {
	Kind() summoner.Source
	Fetch(ctx context.Context, name, region string) (Result, error)
}
