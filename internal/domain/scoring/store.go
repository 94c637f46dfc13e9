package scoring

import (
	"context"

	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListLevelScores(ctx context.Context) ([]LevelScore, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT level, required_score, COALESCE(updated_by::text, ''), updated_at
    FROM required_score_by_level
    ORDER BY level
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LevelScore
	for rows.Next() {
		var ls LevelScore
		if err := rows.Scan(&ls.Level, &ls.RequiredScore, &ls.UpdatedBy, &ls.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ls)
	}
	return out, rows.Err()
}

func (s *Store) UpsertLevelScore(ctx context.Context, level int, score float64, userID string) (LevelScore, error) {
	var ls LevelScore
	err := s.DB.QueryRow(ctx, `
    INSERT INTO required_score_by_level (level, required_score, updated_by, updated_at)
    VALUES ($1, $2, NULLIF($3, '')::uuid, now())
    ON CONFLICT (level) DO UPDATE
      SET required_score = EXCLUDED.required_score,
          updated_by = EXCLUDED.updated_by,
          updated_at = now()
    RETURNING level, required_score, COALESCE(updated_by::text, ''), updated_at
  `, level, score, userID).Scan(&ls.Level, &ls.RequiredScore, &ls.UpdatedBy, &ls.UpdatedAt)
	return ls, err
}
