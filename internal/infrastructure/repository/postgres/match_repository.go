package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

var _ match.Repository = (*MatchRepository)(nil)

const matchSelectColumns = `match_key, participant_keys, doc, created_at, last_updated`

func (r *MatchRepository) UpsertByKey(ctx context.Context, rec match.Record) error {
	model, err := newMatchModel(rec)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO matches (match_key, participant_keys, doc, created_at, last_updated)
		VALUES (:match_key, :participant_keys, :doc, :created_at, :last_updated)
		ON CONFLICT (match_key) DO UPDATE SET
			participant_keys = EXCLUDED.participant_keys,
			doc = EXCLUDED.doc,
			last_updated = EXCLUDED.last_updated`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert match %s: %w", rec.MatchKey, err)
	}

	return nil
}

func (r *MatchRepository) GetByKey(ctx context.Context, key string) (match.Record, bool, error) {
	var model matchTableModel
	err := r.db.GetContext(ctx, &model,
		`SELECT `+matchSelectColumns+` FROM matches WHERE match_key = $1`, key)
	if err != nil {
		if isNotFound(err) {
			return match.Record{}, false, nil
		}
		return match.Record{}, false, fmt.Errorf("select match %s: %w", key, err)
	}

	rec, err := model.toDomain()
	if err != nil {
		return match.Record{}, false, err
	}

	return rec, true, nil
}

func (r *MatchRepository) ListReferencing(ctx context.Context, identityKey string) ([]match.Record, error) {
	var models []matchTableModel
	err := r.db.SelectContext(ctx, &models,
		`SELECT `+matchSelectColumns+` FROM matches WHERE $1 = ANY(participant_keys) ORDER BY created_at DESC`, identityKey)
	if err != nil {
		return nil, fmt.Errorf("select matches referencing %s: %w", identityKey, err)
	}

	return toMatchSlice(models)
}

// RewriteParticipantKey repoints documents inside one transaction so a
// reader never observes a half-rewritten history.
func (r *MatchRepository) RewriteParticipantKey(ctx context.Context, oldKey, newKey string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rewrite tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var models []matchTableModel
	err = tx.SelectContext(ctx, &models,
		`SELECT `+matchSelectColumns+` FROM matches WHERE $1 = ANY(participant_keys) FOR UPDATE`, oldKey)
	if err != nil {
		return 0, fmt.Errorf("select matches for rewrite: %w", err)
	}

	rewritten := 0
	for _, model := range models {
		rec, err := model.toDomain()
		if err != nil {
			return rewritten, err
		}
		for i := range rec.Participants {
			if rec.Participants[i].IdentityKey == oldKey {
				rec.Participants[i].IdentityKey = newKey
			}
		}

		updated, err := newMatchModel(rec)
		if err != nil {
			return rewritten, err
		}
		if _, err := tx.NamedExecContext(ctx,
			`UPDATE matches SET participant_keys = :participant_keys, doc = :doc WHERE match_key = :match_key`,
			updated); err != nil {
			return rewritten, fmt.Errorf("update match %s: %w", rec.MatchKey, err)
		}
		rewritten++
	}

	if err := tx.Commit(); err != nil {
		return rewritten, fmt.Errorf("commit rewrite tx: %w", err)
	}

	return rewritten, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Record, error) {
	var models []matchTableModel
	err := r.db.SelectContext(ctx, &models,
		`SELECT `+matchSelectColumns+` FROM matches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	return toMatchSlice(models)
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM matches`); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}

	return count, nil
}

func (r *MatchRepository) DeleteByKey(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE match_key = $1`, key); err != nil {
		return fmt.Errorf("delete match %s: %w", key, err)
	}

	return nil
}

func toMatchSlice(models []matchTableModel) ([]match.Record, error) {
	out := make([]match.Record, 0, len(models))
	for _, model := range models {
		rec, err := model.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}
