package workflow

import (
	"context"
	"errors"
	"testing"

	"trainhub/internal/domain/apperr"
)

func TestPersistStoresTransition(t *testing.T) {
	state := TrainingProposed
	load := func(ctx context.Context) (State, error) { return state, nil }
	swap := func(ctx context.Context, tr Transition) (bool, error) {
		if state != tr.From {
			return false, nil
		}
		state = tr.To
		return true, nil
	}
	tr, err := TrainingTable().Persist(context.Background(), load, ActionApprove, Input{Actor: "u1"}, swap)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if tr.To != TrainingApproved || state != TrainingApproved {
		t.Fatalf("expected Approved, got %s (stored %s)", tr.To, state)
	}
}

func TestPersistLostRaceReportsFreshState(t *testing.T) {
	// Another writer rejects the training between our read and our write.
	reads := 0
	load := func(ctx context.Context) (State, error) {
		reads++
		if reads == 1 {
			return TrainingProposed, nil
		}
		return TrainingRejected, nil
	}
	swap := func(ctx context.Context, tr Transition) (bool, error) { return false, nil }

	_, err := TrainingTable().Persist(context.Background(), load, ActionApprove, Input{}, swap)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if terr.Current != TrainingRejected {
		t.Fatalf("expected error against Rejected, got %s", terr.Current)
	}
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatal("expected ErrInvalidTransition")
	}
}

func TestPersistNoopSkipsWrite(t *testing.T) {
	load := func(ctx context.Context) (State, error) { return TrainingArchived, nil }
	swap := func(ctx context.Context, tr Transition) (bool, error) {
		t.Fatal("noop must not write")
		return false, nil
	}
	tr, err := TrainingTable().Persist(context.Background(), load, ActionArchive, Input{}, swap)
	if err != nil || !tr.Noop {
		t.Fatalf("expected noop archive, got %+v %v", tr, err)
	}
}

func TestPersistLoadError(t *testing.T) {
	load := func(ctx context.Context) (State, error) { return "", apperr.NotFound("training") }
	_, err := TrainingTable().Persist(context.Background(), load, ActionApprove, Input{}, nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
