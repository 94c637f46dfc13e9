package notificationshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/transport/http/middleware"
)

const knownID = "3f6b7a52-6a8e-4f5e-9a57-1a2b3c4d5e6f"

type fakeService struct {
	read    []string
	filter  notifications.Filter
	cleared int
}

func (f *fakeService) List(ctx context.Context, userID string, filter notifications.Filter, limit, offset int) ([]notifications.Notification, error) {
	f.filter = filter
	return []notifications.Notification{{ID: knownID, Type: notifications.TypeTrainingReminder}}, nil
}

func (f *fakeService) Count(ctx context.Context, userID string, filter notifications.Filter) (int, error) {
	return 1, nil
}

func (f *fakeService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	f.cleared++
	return 3, nil
}

func (f *fakeService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if notificationID != knownID {
		return notifications.ErrNotFound
	}
	f.read = append(f.read, notificationID)
	return nil
}

func serve(svc *fakeService, method, path string, authed bool) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: auth.RoleEmployee}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListNotifications(t *testing.T) {
	if rec := serve(&fakeService{}, http.MethodGet, "/notifications/", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec := serve(&fakeService{}, http.MethodGet, "/notifications/", true)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("expected 200 with total, got %d %q", rec.Code, rec.Header().Get("X-Total-Count"))
	}

	svc := &fakeService{}
	rec = serve(svc, http.MethodGet, "/notifications/?unread=true&type="+notifications.TypeFeedbackOpen, true)
	if rec.Code != http.StatusOK || !svc.filter.UnreadOnly || svc.filter.Type != notifications.TypeFeedbackOpen {
		t.Fatalf("expected filter passed through, got %d %+v", rec.Code, svc.filter)
	}
	for _, query := range []string{"?unread=maybe", "?type=payslip_ready"} {
		if rec := serve(&fakeService{}, http.MethodGet, "/notifications/"+query, true); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", query, rec.Code)
		}
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodPost, "/notifications/read-all", true)
	if rec.Code != http.StatusOK || svc.cleared != 1 || !strings.Contains(rec.Body.String(), `"updated":3`) {
		t.Fatalf("expected read-all to clear inbox, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestMarkRead(t *testing.T) {
	svc := &fakeService{}
	if rec := serve(svc, http.MethodPost, "/notifications/"+knownID+"/read", true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.read) != 1 {
		t.Fatalf("expected one read, got %v", svc.read)
	}
	if rec := serve(svc, http.MethodPost, "/notifications/not-a-uuid/read", true); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
	}
	if rec := serve(svc, http.MethodPost, "/notifications/00000000-0000-0000-0000-000000000000/read", true); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}
}
