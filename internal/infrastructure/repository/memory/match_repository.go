package memory

import (
	"context"
	"sync"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Record
	order []string
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Record)}
}

var _ match.Repository = (*MatchRepository)(nil)

func (r *MatchRepository) UpsertByKey(_ context.Context, rec match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rec.MatchKey]; !ok {
		r.order = append(r.order, rec.MatchKey)
	}
	r.items[rec.MatchKey] = cloneRecord(rec)

	return nil
}

func (r *MatchRepository) GetByKey(_ context.Context, key string) (match.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[key]
	if !ok {
		return match.Record{}, false, nil
	}

	return cloneRecord(rec), true, nil
}

func (r *MatchRepository) ListReferencing(_ context.Context, identityKey string) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Record
	for _, key := range r.order {
		rec := r.items[key]
		if rec.References(identityKey) {
			out = append(out, cloneRecord(rec))
		}
	}

	return out, nil
}

func (r *MatchRepository) RewriteParticipantKey(_ context.Context, oldKey, newKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rewritten := 0
	for key, rec := range r.items {
		touched := false
		for i := range rec.Participants {
			if rec.Participants[i].IdentityKey == oldKey {
				rec.Participants[i].IdentityKey = newKey
				touched = true
			}
		}
		if touched {
			r.items[key] = rec
			rewritten++
		}
	}

	return rewritten, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Record, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneRecord(r.items[key]))
	}

	return out, nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

func (r *MatchRepository) DeleteByKey(_ context.Context, key string) error {
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

func cloneRecord(rec match.Record) match.Record {
	out := rec
	if rec.Participants != nil {
		out.Participants = make([]match.Participant, len(rec.Participants))
		copy(out.Participants, rec.Participants)
		for i := range out.Participants {
			if out.Participants[i].Items != nil {
				out.Participants[i].Items = append([]match.Item(nil), out.Participants[i].Items...)
			}
			if out.Participants[i].Runes.PerkIDs != nil {
				out.Participants[i].Runes.PerkIDs = append([]int(nil), out.Participants[i].Runes.PerkIDs...)
			}
		}
	}
	if rec.Teams != nil {
		out.Teams = append([]match.TeamStats(nil), rec.Teams...)
	}

	return out
}
