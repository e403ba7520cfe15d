// Package memory holds in-process repository implementations. They back
// the service when DB_URL is unset and double as test fixtures.
package memory

import (
	"context"
	"sync"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

// SummonerRepository keeps identities in insertion order so grouped
// reads stay deterministic across calls.
type SummonerRepository struct {
	mu    sync.RWMutex
	items map[string]summoner.Identity
	order []string
}

func NewSummonerRepository() *SummonerRepository {
	return &SummonerRepository{items: make(map[string]summoner.Identity)}
}

var _ summoner.Repository = (*SummonerRepository)(nil)

func (r *SummonerRepository) UpsertByKey(_ context.Context, identity summoner.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[identity.IdentityKey]; !ok {
		r.order = append(r.order, identity.IdentityKey)
	}
	r.items[identity.IdentityKey] = cloneIdentity(identity)

	return nil
}

func (r *SummonerRepository) GetByKey(_ context.Context, key string) (summoner.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.items[key]
	if !ok {
		return summoner.Identity{}, false, nil
	}

	return cloneIdentity(identity), true, nil
}

func (r *SummonerRepository) FindByNameRegion(_ context.Context, name, region string) ([]summoner.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []summoner.Identity
	for _, key := range r.order {
		identity := r.items[key]
		if identity.DisplayName == name && (region == "" || identity.Region == region) {
			out = append(out, cloneIdentity(identity))
		}
	}

	return out, nil
}

func (r *SummonerRepository) GroupedByDisplayName(_ context.Context) ([]summoner.NameGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buckets := make(map[string][]summoner.Identity)
	var names []string
	for _, key := range r.order {
		identity := r.items[key]
		if _, seen := buckets[identity.DisplayName]; !seen {
			names = append(names, identity.DisplayName)
		}
		buckets[identity.DisplayName] = append(buckets[identity.DisplayName], cloneIdentity(identity))
	}

	out := make([]summoner.NameGroup, 0, len(names))
	for _, name := range names {
		out = append(out, summoner.NameGroup{Name: name, Identities: buckets[name]})
	}

	return out, nil
}

func (r *SummonerRepository) ListKeys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out, nil
}

func (r *SummonerRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

func (r *SummonerRepository) DeleteByKey(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return nil
	}
	delete(r.items, key)
	for i, existing := range r.order {
		if existing == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

func cloneIdentity(identity summoner.Identity) summoner.Identity {
	out := identity
	if identity.RankStats.Solo != nil {
		solo := *identity.RankStats.Solo
		out.RankStats.Solo = &solo
	}
	if identity.RankStats.Flex != nil {
		flex := *identity.RankStats.Flex
		out.RankStats.Flex = &flex
	}
	if identity.SourceHistory != nil {
		out.SourceHistory = append([]summoner.Source(nil), identity.SourceHistory...)
	}

	return out
}
