package suggestion

import "context"

type StoreAPI interface {
	List(ctx context.Context, capabilityID string) ([]Suggestion, error)
	Get(ctx context.Context, id string) (Suggestion, error)
	Create(ctx context.Context, s Suggestion) (string, error)
	Update(ctx context.Context, s Suggestion) error
	AppendTopics(ctx context.Context, id string, topics []string) error
	Delete(ctx context.Context, id string) error
}
