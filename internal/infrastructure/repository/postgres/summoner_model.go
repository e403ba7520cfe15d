package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

type summonerTableModel struct {
	IdentityKey string    `db:"identity_key"`
	DisplayName string    `db:"display_name"`
	Region      string    `db:"region"`
	Source      string    `db:"source"`
	Doc         []byte    `db:"doc"`
	CreatedAt   time.Time `db:"created_at"`
	LastUpdated time.Time `db:"last_updated"`
}

func newSummonerModel(identity summoner.Identity) (summonerTableModel, error) {
	doc, err := sonic.Marshal(identity)
	if err != nil {
		return summonerTableModel{}, fmt.Errorf("encode summoner doc: %w", err)
	}

	return summonerTableModel{
		IdentityKey: identity.IdentityKey,
		DisplayName: identity.DisplayName,
		Region:      identity.Region,
		Source:      string(identity.Source),
		Doc:         doc,
		CreatedAt:   identity.CreatedAt,
		LastUpdated: identity.LastUpdated,
	}, nil
}

func (m summonerTableModel) toDomain() (summoner.Identity, error) {
	var identity summoner.Identity
	if err := sonic.Unmarshal(m.Doc, &identity); err != nil {
		return summoner.Identity{}, fmt.Errorf("decode summoner doc %s: %w", m.IdentityKey, err)
	}

	return identity, nil
}
