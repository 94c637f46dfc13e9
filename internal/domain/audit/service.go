package audit

import (
	"context"
	"encoding/json"
)

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Record(ctx context.Context, e Entry) error {
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return err
	}
	return s.store.Insert(ctx, e, beforeJSON, afterJSON)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	return s.store.Count(ctx, filter)
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	return s.store.List(ctx, filter, includeDetails, limit, offset)
}

func marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
