package audit

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, e Entry, beforeJSON, afterJSON []byte) error
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error)
}
