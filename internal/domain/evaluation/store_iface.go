package evaluation

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, s Score) (string, error)
	Get(ctx context.Context, id string) (Score, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Score, error)
}
