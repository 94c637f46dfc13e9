package attempt

import (
	"context"
	"errors"
	"slices"
	"strings"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/training"
	"trainhub/internal/domain/workflow"
)

type Trainings interface {
	Get(ctx context.Context, id string) (training.Training, error)
	RequiredScore(ctx context.Context, id, employeeID string) (scoring.Resolution, error)
}

type Service struct {
	store     StoreAPI
	trainings Trainings
}

func NewService(store StoreAPI, trainings Trainings) *Service {
	return &Service{store: store, trainings: trainings}
}

// Record scores one attempt against the resolved threshold. The attempt
// number is claimed atomically, so concurrent submissions never exceed MaxAttempts.
func (s *Service) Record(ctx context.Context, trainingID, employeeID string, score *float64) (Result, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Result{}, apperr.Validation("employeeId", "is required")
	}
	if score == nil {
		return Result{}, apperr.Validation("scoreAchieved", "is required")
	}
	t, err := s.trainings.Get(ctx, trainingID)
	if err != nil {
		return Result{}, err
	}
	if !slices.Contains(attemptableStates, t.WorkflowStatus) {
		return Result{}, &workflow.TransitionError{
			Entity:  "training",
			Current: t.WorkflowStatus,
			Action:  actionAttempt,
			Allowed: attemptableStates,
		}
	}
	resolution, err := s.trainings.RequiredScore(ctx, trainingID, employeeID)
	if err != nil {
		return Result{}, err
	}
	achieved, status := scoring.Evaluate(*score, resolution.RequiredScore)

	pending := Attempt{
		TrainingID:    trainingID,
		EmployeeID:    employeeID,
		ScoreAchieved: achieved,
		RequiredScore: resolution.RequiredScore,
		Status:        status,
	}
	var saved Attempt
	for i := 0; i < insertRetries; i++ {
		saved, err = s.store.Insert(ctx, pending, MaxAttempts)
		if !errors.Is(err, ErrSlotTaken) {
			break
		}
	}
	if errors.Is(err, ErrSlotTaken) {
		return Result{}, apperr.ErrAttemptLimitExceeded
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		Attempt:           saved,
		FinalStatus:       saved.Status,
		AttemptsRemaining: remaining(saved.AttemptNo),
	}, nil
}

// History lists attempts. With an employee it also reports the final status,
// which is the status of the latest attempt.
func (s *Service) History(ctx context.Context, trainingID, employeeID string) (History, error) {
	if _, err := s.trainings.Get(ctx, trainingID); err != nil {
		return History{}, err
	}
	employeeID = strings.TrimSpace(employeeID)
	items, err := s.store.List(ctx, trainingID, employeeID)
	if err != nil {
		return History{}, err
	}
	h := History{Attempts: items, AttemptsRemaining: MaxAttempts}
	if employeeID != "" && len(items) > 0 {
		latest := items[len(items)-1]
		h.FinalStatus = latest.Status
		h.AttemptsRemaining = remaining(latest.AttemptNo)
	}
	return h, nil
}

func remaining(attemptNo int) int {
	if attemptNo >= MaxAttempts {
		return 0
	}
	return MaxAttempts - attemptNo
}
