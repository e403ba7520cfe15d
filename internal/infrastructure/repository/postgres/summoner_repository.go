package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

type SummonerRepository struct {
	db *sqlx.DB
}

func NewSummonerRepository(db *sqlx.DB) *SummonerRepository {
	return &SummonerRepository{db: db}
}

var _ summoner.Repository = (*SummonerRepository)(nil)

func (r *SummonerRepository) UpsertByKey(ctx context.Context, identity summoner.Identity) error {
	model, err := newSummonerModel(identity)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO summoners (identity_key, display_name, region, source, doc, created_at, last_updated)
		VALUES (:identity_key, :display_name, :region, :source, :doc, :created_at, :last_updated)
		ON CONFLICT (identity_key) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			region = EXCLUDED.region,
			source = EXCLUDED.source,
			doc = EXCLUDED.doc,
			last_updated = EXCLUDED.last_updated`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert summoner %s: %w", identity.IdentityKey, err)
	}

	return nil
}

func (r *SummonerRepository) GetByKey(ctx context.Context, key string) (summoner.Identity, bool, error) {
	var model summonerTableModel
	err := r.db.GetContext(ctx, &model,
		`SELECT identity_key, display_name, region, source, doc, created_at, last_updated
		 FROM summoners WHERE identity_key = $1`, key)
	if err != nil {
		if isNotFound(err) {
			return summoner.Identity{}, false, nil
		}
		return summoner.Identity{}, false, fmt.Errorf("select summoner %s: %w", key, err)
	}

	identity, err := model.toDomain()
	if err != nil {
		return summoner.Identity{}, false, err
	}

	return identity, true, nil
}

func (r *SummonerRepository) FindByNameRegion(ctx context.Context, name, region string) ([]summoner.Identity, error) {
	var models []summonerTableModel
	err := r.db.SelectContext(ctx, &models,
		`SELECT identity_key, display_name, region, source, doc, created_at, last_updated
		 FROM summoners WHERE display_name = $1 AND ($2 = '' OR region = $2)
		 ORDER BY created_at, identity_key`, name, region)
	if err != nil {
		return nil, fmt.Errorf("select summoners by name: %w", err)
	}

	return toDomainSlice(models)
}

// GroupedByDisplayName orders rows by created_at so the merge primary
// tie-break on insertion order is stable across runs.
func (r *SummonerRepository) GroupedByDisplayName(ctx context.Context) ([]summoner.NameGroup, error) {
	var models []summonerTableModel
	err := r.db.SelectContext(ctx, &models,
		`SELECT identity_key, display_name, region, source, doc, created_at, last_updated
		 FROM summoners ORDER BY created_at, identity_key`)
	if err != nil {
		return nil, fmt.Errorf("select summoners: %w", err)
	}

	buckets := make(map[string][]summoner.Identity)
	var names []string
	for _, model := range models {
		identity, err := model.toDomain()
		if err != nil {
			return nil, err
		}
		if _, seen := buckets[identity.DisplayName]; !seen {
			names = append(names, identity.DisplayName)
		}
		buckets[identity.DisplayName] = append(buckets[identity.DisplayName], identity)
	}

	out := make([]summoner.NameGroup, 0, len(names))
	for _, name := range names {
		out = append(out, summoner.NameGroup{Name: name, Identities: buckets[name]})
	}

	return out, nil
}

func (r *SummonerRepository) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys,
		`SELECT identity_key FROM summoners ORDER BY created_at, identity_key`); err != nil {
		return nil, fmt.Errorf("select summoner keys: %w", err)
	}

	return keys, nil
}

func (r *SummonerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM summoners`); err != nil {
		return 0, fmt.Errorf("count summoners: %w", err)
	}

	return count, nil
}

func (r *SummonerRepository) DeleteByKey(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM summoners WHERE identity_key = $1`, key); err != nil {
		return fmt.Errorf("delete summoner %s: %w", key, err)
	}

	return nil
}

func toDomainSlice(models []summonerTableModel) ([]summoner.Identity, error) {
	out := make([]summoner.Identity, 0, len(models))
	for _, model := range models {
		identity, err := model.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, identity)
	}

	return out, nil
}
