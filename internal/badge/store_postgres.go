package badge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	id "legacylink/pkg/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, b *Badge) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO badges (id, profile_id, name, points, awarded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID.String(), b.ProfileID.String(), b.Name, b.Points, b.AwardedAt,
	)
	if err != nil {
		return fmt.Errorf("append badge: %w", err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, profileID id.ProfileID, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM badges WHERE profile_id = $1 AND name = $2)`,
		profileID.String(), name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("badge exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ListByProfile(ctx context.Context, profileID id.ProfileID) ([]*Badge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, profile_id, name, points, awarded_at
		FROM badges WHERE profile_id = $1 ORDER BY awarded_at DESC`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []*Badge
	for rows.Next() {
		var (
			b       Badge
			badgeID string
			profile string
		)
		if err := rows.Scan(&badgeID, &profile, &b.Name, &b.Points, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		bid, err := id.ParseBadgeID(badgeID)
		if err != nil {
			return nil, fmt.Errorf("stored badge id invalid: %w", err)
		}
		pid, err := id.ParseProfileID(profile)
		if err != nil {
			return nil, fmt.Errorf("stored profile id invalid: %w", err)
		}
		b.ID = bid
		b.ProfileID = pid
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return out, nil
}
