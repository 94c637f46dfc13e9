package scoring

import (
	"context"

	"trainhub/internal/domain/apperr"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// LevelTable loads the stored level thresholds for resolution.
func (s *Service) LevelTable(ctx context.Context) (LevelTable, error) {
	scores, err := s.store.ListLevelScores(ctx)
	if err != nil {
		return nil, err
	}
	table := make(LevelTable, len(scores))
	for _, ls := range scores {
		table[ls.Level] = ls.RequiredScore
	}
	return table, nil
}

// List returns every configurable level, filling unset ones with defaults.
func (s *Service) List(ctx context.Context) ([]LevelScore, error) {
	stored, err := s.store.ListLevelScores(ctx)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[int]LevelScore, len(stored))
	for _, ls := range stored {
		byLevel[ls.Level] = ls
	}
	out := make([]LevelScore, 0, len(Levels))
	for _, level := range Levels {
		if ls, ok := byLevel[level]; ok {
			out = append(out, ls)
			continue
		}
		out = append(out, LevelScore{Level: level, RequiredScore: LevelDefaults[level], IsDefault: true})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, level int) (LevelScore, error) {
	if !IsConfigurableLevel(level) {
		return LevelScore{}, apperr.Validation("level", "must be 1, 2 or 3")
	}
	all, err := s.List(ctx)
	if err != nil {
		return LevelScore{}, err
	}
	for _, ls := range all {
		if ls.Level == level {
			return ls, nil
		}
	}
	return LevelScore{}, apperr.NotFound("required score")
}

func (s *Service) Upsert(ctx context.Context, level int, score *float64, userID string) (LevelScore, error) {
	if !IsConfigurableLevel(level) {
		return LevelScore{}, apperr.Validation("level", "must be 1, 2 or 3")
	}
	return s.store.UpsertLevelScore(ctx, level, NormalizeLevelScore(score), userID)
}
