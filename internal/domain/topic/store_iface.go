package topic

import (
	"context"

	"trainhub/internal/domain/workflow"
)

type StoreAPI interface {
	List(ctx context.Context, status string) ([]Topic, error)
	Get(ctx context.Context, id string) (Topic, error)
	Create(ctx context.Context, t Topic) (string, error)
	Update(ctx context.Context, t Topic, expected workflow.State) (bool, error)
	Transition(ctx context.Context, id string, tr workflow.Transition) (bool, error)
	Delete(ctx context.Context, id string, expected workflow.State) (bool, error)
}
