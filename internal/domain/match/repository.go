package match

import "context"

// Repository is the match store contract. Upserts are idempotent by natural
// key; every operation is atomic at single-document granularity and no
// multi-document transaction is assumed.
type Repository interface {
	UpsertByKey(ctx context.Context, doc Record) error
	GetByKey(ctx context.Context, matchKey string) (Record, bool, error)
	ListReferencing(ctx context.Context, identityKey string) ([]Record, error)
	// RewriteParticipantKey repoints every participant entry referencing
	// oldKey at newKey and returns the number of modified records.
	RewriteParticipantKey(ctx context.Context, oldKey, newKey string) (int, error)
	List(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	DeleteByKey(ctx context.Context, matchKey string) error
}
