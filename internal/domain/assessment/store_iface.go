package assessment

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Assessment, error)
	Get(ctx context.Context, id string) (Assessment, error)
	Latest(ctx context.Context, capabilityID, employeeID string) (Assessment, error)
	Create(ctx context.Context, a Assessment) (string, error)
	Update(ctx context.Context, a Assessment) error
	Delete(ctx context.Context, id string) error
}
