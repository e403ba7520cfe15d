package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/riftwatch/rift-ledger/internal/domain/match"
)

type matchTableModel struct {
	MatchKey        string         `db:"match_key"`
	ParticipantKeys pq.StringArray `db:"participant_keys"`
	Doc             []byte         `db:"doc"`
	CreatedAt       time.Time      `db:"created_at"`
	LastUpdated     time.Time      `db:"last_updated"`
}

func newMatchModel(rec match.Record) (matchTableModel, error) {
	doc, err := sonic.Marshal(rec)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode match doc: %w", err)
	}

	keys := make(pq.StringArray, 0, len(rec.Participants))
	for _, p := range rec.Participants {
		keys = append(keys, p.IdentityKey)
	}

	return matchTableModel{
		MatchKey:        rec.MatchKey,
		ParticipantKeys: keys,
		Doc:             doc,
		CreatedAt:       rec.CreatedAt,
		LastUpdated:     rec.LastUpdated,
	}, nil
}

func (m matchTableModel) toDomain() (match.Record, error) {
	var rec match.Record
	if err := sonic.Unmarshal(m.Doc, &rec); err != nil {
		return match.Record{}, fmt.Errorf("decode match doc %s: %w", m.MatchKey, err)
	}

	return rec, nil
}
