package badge

import (
	"context"

	id "legacylink/pkg/domain"
)

// Store is append-only. Exists supports the optional no-duplicate-badge
// policy; without it, repeat awards simply append.
type Store interface {
	Append(ctx context.Context, b *Badge) error
	Exists(ctx context.Context, profileID id.ProfileID, name string) (bool, error)
	ListByProfile(ctx context.Context, profileID id.ProfileID) ([]*Badge, error)
}
