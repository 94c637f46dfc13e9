package material

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Material, error)
	Get(ctx context.Context, id string) (Material, error)
	Create(ctx context.Context, m Material) (string, error)
	Update(ctx context.Context, m Material) error
	Delete(ctx context.Context, id string) error
}
