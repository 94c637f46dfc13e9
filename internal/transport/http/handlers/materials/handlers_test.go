package materialhandler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/material"
	"trainhub/internal/transport/http/handlers/handlertest"
)

const (
	scheduleID = "66666666-6666-6666-6666-666666666666"
	materialID = "77777777-7777-7777-7777-777777777777"
)

type fakeService struct {
	items      map[string]material.Material
	filter     material.Filter
	uploadedBy string
}

func newFake() *fakeService {
	return &fakeService{items: map[string]material.Material{
		materialID: {ID: materialID, ScheduleID: scheduleID, ContentFile: "deck.pdf"},
	}}
}

func (f *fakeService) List(ctx context.Context, filter material.Filter) ([]material.Material, error) {
	f.filter = filter
	return []material.Material{f.items[materialID]}, nil
}

func (f *fakeService) Get(ctx context.Context, id string) (material.Material, error) {
	m, ok := f.items[id]
	if !ok {
		return material.Material{}, apperr.NotFound("training material")
	}
	return m, nil
}

func (f *fakeService) Create(ctx context.Context, m material.Material, uploadedBy string) (material.Material, error) {
	if m.ContentFile == "" && m.VideoURL == "" {
		return material.Material{}, material.ErrContentRequired
	}
	f.uploadedBy = uploadedBy
	m.ID = "88888888-8888-8888-8888-888888888888"
	m.UploadedBy = &uploadedBy
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeService) Update(ctx context.Context, id string, patch material.Patch) (material.Material, error) {
	m, err := f.Get(ctx, id)
	if err != nil {
		return m, err
	}
	if patch.VideoURL != nil {
		m.VideoURL = *patch.VideoURL
	}
	f.items[id] = m
	return m, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("training material")
	}
	delete(f.items, id)
	return nil
}

func TestMaterialLifecycle(t *testing.T) {
	svc := newFake()
	auditor := &handlertest.Auditor{}
	user := handlertest.As(auth.RoleTrainer)
	router := handlertest.Router(NewHandler(svc, auth.StaticPermissions{}, auditor), user)

	resp := handlertest.Do(t, router, http.MethodPost, "/training-materials/", `{"trainingScheduleId":"`+scheduleID+`"}`)
	if resp.Status != http.StatusBadRequest || !strings.Contains(string(resp.Details), "contentFile") {
		t.Fatalf("expected content requirement, got %d %s", resp.Status, resp.Details)
	}
	resp = handlertest.Do(t, router, http.MethodPost, "/training-materials/", `{"trainingScheduleId":"`+scheduleID+`","videoUrl":"not a url"}`)
	if resp.Status != http.StatusBadRequest || !strings.Contains(string(resp.Details), "videoUrl") {
		t.Fatalf("expected url validation, got %d %s", resp.Status, resp.Details)
	}
	resp = handlertest.Do(t, router, http.MethodPost, "/training-materials/", `{"trainingScheduleId":"`+scheduleID+`","videoUrl":"https://video.example/1"}`)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Status)
	}
	if svc.uploadedBy != user.UserID {
		t.Fatalf("expected uploader %s, got %s", user.UserID, svc.uploadedBy)
	}

	resp = handlertest.Do(t, router, http.MethodPatch, "/training-materials/"+materialID, `{"videoUrl":"https://video.example/2"}`)
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var updated material.Material
	resp.Decode(t, &updated)
	if updated.VideoURL != "https://video.example/2" || updated.ContentFile != "deck.pdf" {
		t.Fatalf("unexpected update %+v", updated)
	}

	resp = handlertest.Do(t, router, http.MethodDelete, "/training-materials/"+materialID, "")
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	resp = handlertest.Do(t, router, http.MethodGet, "/training-materials/"+materialID, "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Status)
	}

	if got := auditor.Actions(); len(got) != 3 {
		t.Fatalf("expected create, update and delete audits, got %v", got)
	}
}

func TestMaterialRoles(t *testing.T) {
	for _, role := range []string{auth.RoleEmployee, auth.RoleHR, auth.RoleManagement, auth.RoleHeadOfDepartment} {
		router := handlertest.Router(NewHandler(newFake(), auth.StaticPermissions{}, nil), handlertest.As(role))
		resp := handlertest.Do(t, router, http.MethodPost, "/training-materials/", `{"trainingScheduleId":"`+scheduleID+`","contentFile":"deck.pdf"}`)
		if resp.Status != http.StatusForbidden {
			t.Fatalf("%s: expected 403 on create, got %d", role, resp.Status)
		}
		resp = handlertest.Do(t, router, http.MethodGet, "/training-materials/"+materialID, "")
		if resp.Status != http.StatusOK {
			t.Fatalf("%s: expected read access, got %d", role, resp.Status)
		}
	}
}

func TestListFilterBySchedule(t *testing.T) {
	svc := newFake()
	router := handlertest.Router(NewHandler(svc, auth.StaticPermissions{}, nil), handlertest.As(auth.RoleEmployee))
	resp := handlertest.Do(t, router, http.MethodGet, "/training-materials/?trainingScheduleId="+scheduleID, "")
	if resp.Status != http.StatusOK || svc.filter.ScheduleID != scheduleID {
		t.Fatalf("expected schedule filter, got %d %+v", resp.Status, svc.filter)
	}
	var items []material.Material
	resp.Decode(t, &items)
	if len(items) != 1 {
		t.Fatalf("expected one material, got %d", len(items))
	}
}
