package capability

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, generic *bool) ([]Capability, error) {
	return s.store.List(ctx, generic)
}

func (s *Service) Get(ctx context.Context, id string) (Capability, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Capability) (Capability, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		return Capability{}, ErrNameRequired
	}
	return s.store.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Capability, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Capability{}, err
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
		if current.Name == "" {
			return Capability{}, ErrNameRequired
		}
	}
	if patch.Description != nil {
		current.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsGeneric != nil {
		current.IsGeneric = *patch.IsGeneric
	}
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
