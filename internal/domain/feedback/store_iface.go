package feedback

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, f Feedback) (Feedback, error)
	Exists(ctx context.Context, scheduleID, employeeID string) (bool, error)
	List(ctx context.Context, scheduleID string) ([]Feedback, error)
}
