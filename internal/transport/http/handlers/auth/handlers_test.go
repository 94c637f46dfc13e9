package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/transport/http/middleware"
)

type fakeService struct {
	created auth.NewUser
	enabled string
}

func (f *fakeService) Login(ctx context.Context, email, password, mfaCode string) (auth.Session, error) {
	if password != "Correct123!" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return auth.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), User: auth.User{ID: "u1", Email: email, RoleName: auth.RoleHR}}, nil
}

func (f *fakeService) Me(ctx context.Context, userID string) (auth.User, error) {
	return auth.User{ID: userID, Email: "hr@example.com", RoleName: auth.RoleHR}, nil
}

func (f *fakeService) ListUsers(ctx context.Context) ([]auth.User, error) {
	return []auth.User{{ID: "u1"}}, nil
}

func (f *fakeService) CreateUser(ctx context.Context, in auth.NewUser) (auth.User, error) {
	f.created = in
	if !auth.ValidRole(in.RoleName) {
		return auth.User{}, auth.ErrInvalidRole
	}
	return auth.User{ID: "u2", Email: in.Email, RoleName: in.RoleName}, nil
}

func (f *fakeService) SetupMFA(ctx context.Context, userID, accountName string) (auth.MFASetup, error) {
	return auth.MFASetup{Secret: "SECRET", OTPAuthURL: "otpauth://totp/TrainHub:" + accountName}, nil
}

func (f *fakeService) EnableMFA(ctx context.Context, userID, code string) error {
	if code != "123456" {
		return auth.ErrInvalidMFACode
	}
	f.enabled = userID
	return nil
}

func (f *fakeService) DisableMFA(ctx context.Context, userID, code string) error {
	return nil
}

type recordingAuditor struct {
	actions []string
}

func (a *recordingAuditor) Record(ctx context.Context, e audit.Entry) error {
	a.actions = append(a.actions, e.Action)
	return nil
}

func newRouter(svc *fakeService, auditor *recordingAuditor, user *auth.UserContext) http.Handler {
	h := NewHandler(svc, auth.StaticPermissions{}, auditor)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *user))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.RegisterPublicRoutes(r)
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func TestLogin(t *testing.T) {
	auditor := &recordingAuditor{}
	router := newRouter(&fakeService{}, auditor, nil)

	rec, body := do(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"Correct123!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, body)
	}
	data := body["data"].(map[string]any)
	if data["token"] != "tok" {
		t.Fatalf("expected token, got %v", data["token"])
	}
	if len(auditor.actions) != 1 || auditor.actions[0] != "auth.session.login" {
		t.Fatalf("expected login audit, got %v", auditor.actions)
	}

	rec, body = do(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized || body["code"] != "invalid_credentials" {
		t.Fatalf("expected 401 invalid_credentials, got %d %v", rec.Code, body["code"])
	}

	rec, body = do(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com"}`)
	if rec.Code != http.StatusBadRequest || body["code"] != "validation_error" {
		t.Fatalf("expected validation error, got %d %v", rec.Code, body["code"])
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	svc := &fakeService{}
	payload := `{"email":"trainer@example.com","password":"Stronger123","role":"Trainer"}`

	rec, _ := do(t, newRouter(svc, &recordingAuditor{}, &auth.UserContext{UserID: "hr", RoleName: auth.RoleHR}), http.MethodPost, "/auth/users", payload)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for HR, got %d", rec.Code)
	}

	auditor := &recordingAuditor{}
	rec, _ = do(t, newRouter(svc, auditor, &auth.UserContext{UserID: "admin", RoleName: auth.RoleAdmin}), http.MethodPost, "/auth/users", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", rec.Code)
	}
	if svc.created.RoleName != auth.RoleTrainer {
		t.Fatalf("expected trainer role passed through, got %q", svc.created.RoleName)
	}
	if len(auditor.actions) != 1 || auditor.actions[0] != "auth.user.create" {
		t.Fatalf("expected user create audit, got %v", auditor.actions)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	router := newRouter(&fakeService{}, &recordingAuditor{}, &auth.UserContext{UserID: "admin", RoleName: auth.RoleAdmin})
	rec, body := do(t, router, http.MethodPost, "/auth/users", `{"email":"x@example.com","password":"Stronger123","role":"Wizard"}`)
	if rec.Code != http.StatusBadRequest || body["code"] != "validation_error" {
		t.Fatalf("expected validation_error, got %d %v", rec.Code, body["code"])
	}
}

func TestMFAEnable(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc, &recordingAuditor{}, &auth.UserContext{UserID: "u1", RoleName: auth.RoleEmployee})

	rec, body := do(t, router, http.MethodPost, "/auth/mfa/enable", `{"code":"000000"}`)
	if rec.Code != http.StatusUnauthorized || body["code"] != "invalid_mfa_code" {
		t.Fatalf("expected invalid_mfa_code, got %d %v", rec.Code, body["code"])
	}

	rec, _ = do(t, router, http.MethodPost, "/auth/mfa/enable", `{"code":"123456"}`)
	if rec.Code != http.StatusOK || svc.enabled != "u1" {
		t.Fatalf("expected mfa enabled for u1, got %d %q", rec.Code, svc.enabled)
	}

	rec, body = do(t, router, http.MethodPost, "/auth/mfa/setup", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected setup to succeed, got %d", rec.Code)
	}
	if !strings.Contains(body["data"].(map[string]any)["otpauthUrl"].(string), "hr@example.com") {
		t.Fatalf("expected account name in otpauth url, got %v", body["data"])
	}
}

func TestMeRequiresAuth(t *testing.T) {
	rec, _ := do(t, newRouter(&fakeService{}, &recordingAuditor{}, nil), http.MethodGet, "/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
