package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserStore persists users in Postgres.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id::text, email, password_hash, display_name, COALESCE(avatar_url, ''), COALESCE(bio, ''), registered_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL, &u.Bio, &u.RegisteredAt)
	return u, err
}

func (s *PostgresUserStore) Create(ctx context.Context, p CreateUserParams) (User, error) {
	q := `
INSERT INTO users (id, email, password_hash, display_name)
VALUES ($1, lower($2), $3, $4)
RETURNING ` + userColumns + `;`

	u, err := scanUser(s.pool.QueryRow(ctx, q, uuid.New(), strings.TrimSpace(p.Email), p.PasswordHash, p.DisplayName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, ErrNotFound
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) LIMIT 1;`
	u, err := scanUser(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) ProfilesByIDs(ctx context.Context, ids []string) (map[string]Profile, error) {
	profiles := make(map[string]Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	q := `SELECT id::text, display_name, COALESCE(avatar_url, '') FROM users WHERE id = ANY($1::uuid[]);`
	rows, err := s.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL); err != nil {
			return nil, err
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}
