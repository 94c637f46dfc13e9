package schedule

import (
	"context"
	"time"

	"trainhub/internal/domain/workflow"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Schedule, error)
	Get(ctx context.Context, id string) (Schedule, error)
	Create(ctx context.Context, s Schedule) (string, error)
	Update(ctx context.Context, s Schedule, expected workflow.State) (bool, error)
	Transition(ctx context.Context, id string, tr workflow.Transition, trainingDate *time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	Pending(ctx context.Context, today time.Time) ([]Schedule, error)
	DueReminders(ctx context.Context, from, until time.Time) ([]Schedule, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}
