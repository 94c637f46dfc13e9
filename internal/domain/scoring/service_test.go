package scoring

import (
	"context"
	"errors"
	"testing"

	"trainhub/internal/domain/apperr"
)

type fakeStore struct {
	scores map[int]LevelScore
}

func (f *fakeStore) ListLevelScores(ctx context.Context) ([]LevelScore, error) {
	var out []LevelScore
	for _, level := range Levels {
		if ls, ok := f.scores[level]; ok {
			out = append(out, ls)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertLevelScore(ctx context.Context, level int, score float64, userID string) (LevelScore, error) {
	if f.scores == nil {
		f.scores = map[int]LevelScore{}
	}
	ls := LevelScore{Level: level, RequiredScore: score, UpdatedBy: userID}
	f.scores[level] = ls
	return ls, nil
}

func TestServiceListFillsDefaults(t *testing.T) {
	svc := NewService(&fakeStore{scores: map[int]LevelScore{2: {Level: 2, RequiredScore: 90}}})
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(got))
	}
	if got[0].RequiredScore != 70 || !got[0].IsDefault {
		t.Fatalf("expected level 1 default 70, got %+v", got[0])
	}
	if got[1].RequiredScore != 90 || got[1].IsDefault {
		t.Fatalf("expected stored level 2 score, got %+v", got[1])
	}
	if got[2].RequiredScore != 80 {
		t.Fatalf("expected level 3 default 80, got %+v", got[2])
	}
}

func TestServiceUpsertClampsAndValidates(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	over := 150.0
	ls, err := svc.Upsert(context.Background(), 1, &over, "u1")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if ls.RequiredScore != 100 {
		t.Fatalf("expected clamp to 100, got %v", ls.RequiredScore)
	}

	ls, err = svc.Upsert(context.Background(), 3, nil, "u1")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if ls.RequiredScore != DefaultRequiredScore {
		t.Fatalf("expected default score, got %v", ls.RequiredScore)
	}

	if _, err := svc.Upsert(context.Background(), 4, &over, "u1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for level 4, got %v", err)
	}

	table, err := svc.LevelTable(context.Background())
	if err != nil {
		t.Fatalf("level table: %v", err)
	}
	if table[1] != 100 || table[3] != 70 {
		t.Fatalf("unexpected level table %v", table)
	}
}
