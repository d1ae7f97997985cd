package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
	"legacylink/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const profileColumns = "id, email, full_name, role, university_id, verified, created_at, updated_at"

// PostgresProfileStore persists profiles using the application pool, which
// runs under the caller-facing database role.
type PostgresProfileStore struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileStore(pool *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{pool: pool}
}

func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	// ON CONFLICT DO NOTHING keeps the first write authoritative: a signup
	// retry or race never resets verified or clobbers admin edits.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, email, full_name, role, university_id, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		profile.ID.String(), profile.Email, profile.FullName, profile.Role.String(),
		universityIDParam(profile.UniversityID), profile.Verified, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.FindByID(ctx, profile.ID)
}

func (s *PostgresProfileStore) FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID.String())
	return scanProfile(row)
}

func (s *PostgresProfileStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`, email)
	return scanProfile(row)
}

func (s *PostgresProfileStore) FindPending(ctx context.Context, tenant *id.UniversityID) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE NOT verified AND role IN ('alumni', 'student')`
	args := []any{}
	if tenant != nil {
		query += ` AND university_id = $1`
		args = append(args, tenant.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find pending profiles: %w", err)
	}
	defer rows.Close()

	var pending []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending profiles: %w", err)
	}
	return pending, nil
}

// PostgresVerificationWriter mutates verification state through the
// privileged pool. The admin issuing the action is not the row owner, so
// these statements must run under a service role that bypasses row-level
// security.
type PostgresVerificationWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresVerificationWriter(privileged *pgxpool.Pool) *PostgresVerificationWriter {
	return &PostgresVerificationWriter{pool: privileged}
}

func (w *PostgresVerificationWriter) UpdateVerification(ctx context.Context, profileID id.ProfileID, verified bool, now time.Time) (*models.Profile, error) {
	row := w.pool.QueryRow(ctx, `
		UPDATE profiles SET verified = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+profileColumns,
		profileID.String(), verified, now,
	)
	return scanProfile(row)
}

func (w *PostgresVerificationWriter) Delete(ctx context.Context, profileID id.ProfileID) error {
	tag, err := w.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, profileID.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PostgresUniversityStore persists tenants.
type PostgresUniversityStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUniversityStore(pool *pgxpool.Pool) *PostgresUniversityStore {
	return &PostgresUniversityStore{pool: pool}
}

func (s *PostgresUniversityStore) CreateIfDomainAvailable(ctx context.Context, university *models.University) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO universities (id, name, domain, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		university.ID.String(), university.Name, university.Domain,
		university.Approved, university.CreatedAt, university.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create university: %w", err)
	}
	return nil
}

func (s *PostgresUniversityStore) FindByID(ctx context.Context, universityID id.UniversityID) (*models.University, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, domain, approved, created_at, updated_at
		FROM universities WHERE id = $1`, universityID.String())
	return scanUniversity(row)
}

func (s *PostgresUniversityStore) FindByDomain(ctx context.Context, domain string) (*models.University, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, domain, approved, created_at, updated_at
		FROM universities WHERE LOWER(domain) = LOWER($1)`, domain)
	return scanUniversity(row)
}

func (s *PostgresUniversityStore) List(ctx context.Context) ([]*models.University, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, domain, approved, created_at, updated_at
		FROM universities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	var out []*models.University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universities: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var (
		p          models.Profile
		profileID  string
		role       string
		university *string
	)
	err := row.Scan(&profileID, &p.Email, &p.FullName, &role, &university, &p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	pid, err := id.ParseProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("stored profile id invalid: %w", err)
	}
	p.ID = pid
	p.Role = id.Role(role)
	if university != nil {
		uid, err := id.ParseUniversityID(*university)
		if err != nil {
			return nil, fmt.Errorf("stored university id invalid: %w", err)
		}
		p.UniversityID = &uid
	}
	return &p, nil
}

func scanUniversity(row pgx.Row) (*models.University, error) {
	var (
		u            models.University
		universityID string
	)
	err := row.Scan(&universityID, &u.Name, &u.Domain, &u.Approved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan university: %w", err)
	}
	uid, err := id.ParseUniversityID(universityID)
	if err != nil {
		return nil, fmt.Errorf("stored university id invalid: %w", err)
	}
	u.ID = uid
	return &u, nil
}

func universityIDParam(universityID *id.UniversityID) *string {
	if universityID == nil {
		return nil
	}
	s := universityID.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
