package capability

import "context"

type StoreAPI interface {
	List(ctx context.Context, generic *bool) ([]Capability, error)
	Get(ctx context.Context, id string) (Capability, error)
	Create(ctx context.Context, c Capability) (Capability, error)
	Update(ctx context.Context, c Capability) (Capability, error)
	Delete(ctx context.Context, id string) error
}
