package capabilityhandler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/capability"
	"trainhub/internal/transport/http/handlers/handlertest"
)

const capID = "44444444-4444-4444-4444-444444444444"

type fakeService struct {
	items   map[string]capability.Capability
	generic *bool
}

func newFake() *fakeService {
	return &fakeService{items: map[string]capability.Capability{
		capID: {ID: capID, Name: "Negotiation"},
	}}
}

func (f *fakeService) List(ctx context.Context, generic *bool) ([]capability.Capability, error) {
	f.generic = generic
	return []capability.Capability{f.items[capID]}, nil
}

func (f *fakeService) Get(ctx context.Context, id string) (capability.Capability, error) {
	c, ok := f.items[id]
	if !ok {
		return capability.Capability{}, apperr.NotFound("capability")
	}
	return c, nil
}

func (f *fakeService) Create(ctx context.Context, c capability.Capability) (capability.Capability, error) {
	if strings.TrimSpace(c.Name) == "" {
		return capability.Capability{}, apperr.Validation("name", "is required")
	}
	for _, existing := range f.items {
		if strings.EqualFold(existing.Name, strings.TrimSpace(c.Name)) {
			return capability.Capability{}, apperr.Validation("name", "already exists")
		}
	}
	c.ID = "55555555-5555-5555-5555-555555555555"
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeService) Update(ctx context.Context, id string, patch capability.Patch) (capability.Capability, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return c, err
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	f.items[id] = c
	return c, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("capability")
	}
	delete(f.items, id)
	return nil
}

func TestCapabilityLifecycle(t *testing.T) {
	svc := newFake()
	auditor := &handlertest.Auditor{}
	router := handlertest.Router(NewHandler(svc, auth.StaticPermissions{}, auditor), handlertest.As(auth.RoleHR))

	resp := handlertest.Do(t, router, http.MethodPost, "/capabilities/", `{"name":"  "}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Status)
	}
	resp = handlertest.Do(t, router, http.MethodPost, "/capabilities/", `{"name":"negotiation"}`)
	if resp.Status != http.StatusBadRequest || resp.Code != "validation_error" {
		t.Fatalf("expected duplicate rejection, got %d %s", resp.Status, resp.Code)
	}
	resp = handlertest.Do(t, router, http.MethodPost, "/capabilities/", `{"name":"Excel","isGeneric":true}`)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Status)
	}

	resp = handlertest.Do(t, router, http.MethodPatch, "/capabilities/"+capID, `{"description":"closing deals"}`)
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var updated capability.Capability
	resp.Decode(t, &updated)
	if updated.Description != "closing deals" || updated.Name != "Negotiation" {
		t.Fatalf("unexpected update %+v", updated)
	}

	resp = handlertest.Do(t, router, http.MethodDelete, "/capabilities/"+capID, "")
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	resp = handlertest.Do(t, router, http.MethodGet, "/capabilities/"+capID, "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Status)
	}

	if got := auditor.Actions(); len(got) != 3 {
		t.Fatalf("expected create, update and delete audits, got %v", got)
	}
}

func TestCapabilityWriteRoles(t *testing.T) {
	for _, role := range []string{auth.RoleEmployee, auth.RoleTrainer, auth.RoleManagement, auth.RoleHeadOfDepartment} {
		router := handlertest.Router(NewHandler(newFake(), auth.StaticPermissions{}, nil), handlertest.As(role))
		resp := handlertest.Do(t, router, http.MethodPost, "/capabilities/", `{"name":"Excel"}`)
		if resp.Status != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", role, resp.Status)
		}
	}
}

func TestListFilterByGeneric(t *testing.T) {
	svc := newFake()
	router := handlertest.Router(NewHandler(svc, auth.StaticPermissions{}, nil), handlertest.As(auth.RoleEmployee))
	resp := handlertest.Do(t, router, http.MethodGet, "/capabilities/?isGeneric=true", "")
	if resp.Status != http.StatusOK || svc.generic == nil || !*svc.generic {
		t.Fatalf("expected generic filter, got %d %v", resp.Status, svc.generic)
	}
	resp = handlertest.Do(t, router, http.MethodGet, "/capabilities/?isGeneric=maybe", "")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Status)
	}
}
