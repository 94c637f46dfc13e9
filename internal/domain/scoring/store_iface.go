package scoring

import "context"

type StoreAPI interface {
	ListLevelScores(ctx context.Context) ([]LevelScore, error)
	UpsertLevelScore(ctx context.Context, level int, score float64, userID string) (LevelScore, error)
}
