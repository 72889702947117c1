package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAlfajorStore persists the catalog in Postgres.
type PostgresAlfajorStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAlfajorStore(pool *pgxpool.Pool) *PostgresAlfajorStore {
	return &PostgresAlfajorStore{pool: pool}
}

const alfajorColumns = `id::text, name, brand, country, kind, coating,
	COALESCE(description, ''), COALESCE(image_url, ''),
	average_score, review_count, created_at, updated_at`

func scanAlfajor(row pgx.Row) (Alfajor, error) {
	var a Alfajor
	err := row.Scan(&a.ID, &a.Name, &a.Brand, &a.Country, &a.Kind, &a.Coating,
		&a.Description, &a.ImageURL, &a.AverageScore, &a.ReviewCount, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *PostgresAlfajorStore) Create(ctx context.Context, a Alfajor) (Alfajor, error) {
	q := `
INSERT INTO alfajores (id, name, brand, country, kind, coating, description, image_url, average_score, review_count)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), 0, 0)
RETURNING ` + alfajorColumns + `;`

	return scanAlfajor(s.pool.QueryRow(ctx, q, uuid.New(), a.Name, a.Brand, a.Country, a.Kind, a.Coating, a.Description, a.ImageURL))
}

func (s *PostgresAlfajorStore) GetByID(ctx context.Context, id string) (Alfajor, error) {
	q := `SELECT ` + alfajorColumns + ` FROM alfajores WHERE id = $1 LIMIT 1;`
	a, err := scanAlfajor(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alfajor{}, ErrNotFound
		}
		return Alfajor{}, err
	}
	return a, nil
}

func (s *PostgresAlfajorStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM alfajores WHERE id = $1);`, id).Scan(&exists)
	return exists, err
}

func (s *PostgresAlfajorStore) List(ctx context.Context, p ListAlfajoresParams) ([]Alfajor, int, error) {
	where := ` WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR brand ILIKE '%' || $1 || '%')
	AND ($2 = '' OR country = $2)
	AND ($3 = '' OR kind = $3)
	AND ($4 = '' OR coating = $4)`

	var orderBy string
	switch p.Sort {
	case SortRating:
		orderBy = ` ORDER BY average_score DESC, id ASC`
	case SortPopular:
		orderBy = ` ORDER BY review_count DESC, id ASC`
	default:
		orderBy = ` ORDER BY created_at DESC, id ASC`
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alfajores`+where+`;`,
		p.Query, p.Country, p.Kind, p.Coating).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM alfajores%s%s OFFSET $5 LIMIT $6;`, alfajorColumns, where, orderBy)
	rows, err := s.pool.Query(ctx, q, p.Query, p.Country, p.Kind, p.Coating, (p.Page-1)*p.PageSize, p.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Alfajor, 0, p.PageSize)
	for rows.Next() {
		a, err := scanAlfajor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (s *PostgresAlfajorStore) UpdateStats(ctx context.Context, id string, averageScore float64, reviewCount int) error {
	// A missing alfajor updates 0 rows; deliberately not an error.
	q := `UPDATE alfajores SET average_score = $2, review_count = $3, updated_at = now() WHERE id = $1;`
	_, err := s.pool.Exec(ctx, q, id, averageScore, reviewCount)
	return err
}

func (s *PostgresAlfajorStore) TopRated(ctx context.Context, minReviews, limit int) ([]RankedAlfajor, error) {
	q := `
SELECT name, brand, average_score, review_count
FROM alfajores
WHERE review_count >= $1
ORDER BY average_score DESC, id ASC
LIMIT $2;`
	return s.queryRanked(ctx, q, minReviews, limit)
}

func (s *PostgresAlfajorStore) MostReviewed(ctx context.Context, limit int) ([]RankedAlfajor, error) {
	q := `
SELECT name, brand, average_score, review_count
FROM alfajores
ORDER BY review_count DESC, id ASC
LIMIT $1;`
	return s.queryRanked(ctx, q, limit)
}

func (s *PostgresAlfajorStore) queryRanked(ctx context.Context, q string, args ...any) ([]RankedAlfajor, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []RankedAlfajor
	for rows.Next() {
		var r RankedAlfajor
		if err := rows.Scan(&r.Name, &r.Brand, &r.AverageScore, &r.ReviewCount); err != nil {
			return nil, err
		}
		ranked = append(ranked, r)
	}
	return ranked, rows.Err()
}
