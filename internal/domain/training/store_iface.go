package training

import (
	"context"

	"trainhub/internal/domain/workflow"
)

type StoreAPI interface {
	List(ctx context.Context, status string, limit, offset int) ([]Training, int, error)
	Get(ctx context.Context, id string) (Training, error)
	Create(ctx context.Context, t Training) (string, error)
	UpdatePhase1(ctx context.Context, t Training, expected workflow.State) (bool, error)
	UpdatePhase2(ctx context.Context, id string, p Phase2, expected workflow.State) (bool, error)
	Transition(ctx context.Context, id string, tr workflow.Transition, fields TransitionFields) (bool, error)
	Delete(ctx context.Context, id string) error
	AddFeedback(ctx context.Context, entry FeedbackEntry) (FeedbackEntry, error)
	ListFeedback(ctx context.Context, trainingID string) ([]FeedbackEntry, error)
}
