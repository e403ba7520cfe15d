package summoner

import "context"

// NameGroup is a set of identities sharing one grouping key.
type NameGroup struct {
	Name       string
	Identities []Identity
}

// Repository is the identity store contract. All upserts are idempotent by
// natural key and atomic at single-document granularity.
type Repository interface {
	UpsertByKey(ctx context.Context, doc Identity) error
	GetByKey(ctx context.Context, identityKey string) (Identity, bool, error)
	// FindByNameRegion matches the display name exactly; an empty region
	// matches every region.
	FindByNameRegion(ctx context.Context, displayName, region string) ([]Identity, error)
	GroupedByDisplayName(ctx context.Context) ([]NameGroup, error)
	ListKeys(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	DeleteByKey(ctx context.Context, identityKey string) error
}
