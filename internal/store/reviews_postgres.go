package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReviewStore persists reviews in Postgres. The (user_id, alfajor_id)
// pair carries a unique index, so the one-review-per-user-per-alfajor rule
// holds even when the service-level existence check races.
type PostgresReviewStore struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewStore(pool *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{pool: pool}
}

const reviewColumns = `id::text, user_id::text, alfajor_id::text, score, COALESCE(text, ''), consumed_at, published_at, updated_at`

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.UserID, &r.AlfajorID, &r.Score, &r.Text, &r.ConsumedAt, &r.PublishedAt, &r.UpdatedAt)
	return r, err
}

func (s *PostgresReviewStore) Create(ctx context.Context, r Review) (Review, error) {
	q := `
INSERT INTO reviews (id, user_id, alfajor_id, score, text, consumed_at, published_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
RETURNING ` + reviewColumns + `;`

	created, err := scanReview(s.pool.QueryRow(ctx, q, uuid.New(), r.UserID, r.AlfajorID, r.Score, r.Text, r.ConsumedAt, r.PublishedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Review{}, ErrConflict
		}
		return Review{}, err
	}
	return created, nil
}

func (s *PostgresReviewStore) GetOwned(ctx context.Context, reviewID, userID string) (Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 AND user_id = $2 LIMIT 1;`
	r, err := scanReview(s.pool.QueryRow(ctx, q, reviewID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFoundOrForbidden
		}
		return Review{}, err
	}
	return r, nil
}

func (s *PostgresReviewStore) Update(ctx context.Context, reviewID, userID string, patch ReviewPatch) (Review, error) {
	q := `
UPDATE reviews SET
	score = COALESCE($3, score),
	text = CASE WHEN $4::text IS NULL THEN text ELSE NULLIF($4, '') END,
	consumed_at = COALESCE($5, consumed_at),
	updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + reviewColumns + `;`

	r, err := scanReview(s.pool.QueryRow(ctx, q, reviewID, userID, patch.Score, patch.Text, patch.ConsumedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFoundOrForbidden
		}
		return Review{}, err
	}
	return r, nil
}

func (s *PostgresReviewStore) FindAndDelete(ctx context.Context, reviewID, userID string) (Review, error) {
	q := `DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING ` + reviewColumns + `;`
	r, err := scanReview(s.pool.QueryRow(ctx, q, reviewID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFoundOrForbidden
		}
		return Review{}, err
	}
	return r, nil
}

func (s *PostgresReviewStore) ListByAlfajor(ctx context.Context, alfajorID string, offset, limit int) ([]Review, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE alfajor_id = $1;`, alfajorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + reviewColumns + `
FROM reviews
WHERE alfajor_id = $1
ORDER BY published_at DESC, id DESC
OFFSET $2 LIMIT $3;`
	rows, err := s.pool.Query(ctx, q, alfajorID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Review, 0, limit)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *PostgresReviewStore) ScoresByAlfajor(ctx context.Context, alfajorID string) ([]float64, error) {
	return s.queryScores(ctx, `SELECT score FROM reviews WHERE alfajor_id = $1;`, alfajorID)
}

func (s *PostgresReviewStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1;`, userID).Scan(&count)
	return count, err
}

func (s *PostgresReviewStore) CountDistinctAlfajoresByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT alfajor_id) FROM reviews WHERE user_id = $1;`, userID).Scan(&count)
	return count, err
}

func (s *PostgresReviewStore) ScoresByUser(ctx context.Context, userID string) ([]float64, error) {
	return s.queryScores(ctx, `SELECT score FROM reviews WHERE user_id = $1;`, userID)
}

func (s *PostgresReviewStore) queryScores(ctx context.Context, q string, arg any) ([]float64, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
