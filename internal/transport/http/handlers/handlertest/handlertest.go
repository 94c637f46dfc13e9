// Package handlertest holds the request plumbing shared by handler tests.
package handlertest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/transport/http/middleware"
)

type Routes interface {
	RegisterRoutes(r chi.Router)
}

// Router mounts routes behind a stub that attaches user when it is non-nil.
func Router(routes Routes, user *auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *user))
			}
			next.ServeHTTP(w, req)
		})
	})
	routes.RegisterRoutes(r)
	return r
}

func As(role string) *auth.UserContext {
	return &auth.UserContext{UserID: "00000000-0000-0000-0000-0000000000aa", RoleName: role}
}

// Response is a decoded envelope.
type Response struct {
	Status    int             `json:"-"`
	Header    http.Header     `json:"-"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Details   json.RawMessage `json:"details"`
	RequestID string          `json:"requestId"`
}

func (r Response) Decode(t *testing.T, dst any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", string(r.Data), err)
	}
}

func Do(t *testing.T, handler http.Handler, method, path, body string, headers ...string) Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := Response{Status: rec.Code, Header: rec.Header()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return out
}

// Auditor records entries in memory.
type Auditor struct {
	mu      sync.Mutex
	Entries []audit.Entry
}

func (a *Auditor) Record(ctx context.Context, e audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, e)
	return nil
}

func (a *Auditor) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		out[i] = e.Action
	}
	return out
}

// Notifier records in-app notifications in memory.
type Notifier struct {
	mu   sync.Mutex
	Sent []Sent
}

type Sent struct {
	UserID string
	Type   string
	Title  string
}

func (n *Notifier) Create(ctx context.Context, userID, ntype, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Sent{UserID: userID, Type: ntype, Title: title})
	return nil
}
