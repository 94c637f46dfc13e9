package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/shared"
)

type keyFunc func(r *http.Request) string

type window struct {
	count int
	reset time.Time
}

// limiter is a fixed-window counter per key. Expired windows are swept once
// per period so idle callers do not accumulate.
type limiter struct {
	mu        sync.Mutex
	limit     int
	period    time.Duration
	key       keyFunc
	windows   map[string]*window
	nextSweep time.Time
}

func newLimiter(limit int, period time.Duration, key keyFunc) *limiter {
	return &limiter{limit: limit, period: period, key: key, windows: map[string]*window{}}
}

// RateLimit throttles every request by signed-in user, falling back to client IP.
// It must run after Auth so the user is known.
func RateLimit(limit int, period time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(limit, period, userOrIP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter budgets to sign-in and MFA calls and to
// the workflow decisions that change a training or record a score.
func SensitiveMutationRateLimit(baseLimit int, period time.Duration) func(http.Handler) http.Handler {
	signInByIP := newLimiter(max(baseLimit/4, 1), period, clientIP)
	signInByEmail := newLimiter(max(baseLimit/4, 1), period, loginEmail)
	decisions := newLimiter(max(baseLimit/2, 1), period, userOrIP)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !signInByIP.allow(w, r) || !signInByEmail.allow(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !decisions.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *limiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	if key == "" {
		key = clientIP(r)
	}
	now := time.Now()

	l.mu.Lock()
	if now.After(l.nextSweep) {
		for k, win := range l.windows {
			if now.After(win.reset) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(l.period)
	}
	win, ok := l.windows[key]
	if !ok || now.After(win.reset) {
		win = &window{reset: now.Add(l.period)}
		l.windows[key] = win
	}
	win.count++
	count, reset := win.count, win.reset
	l.mu.Unlock()

	resetIn := 0
	if d := reset.Sub(now); d > 0 {
		resetIn = max(int(d.Seconds()), 1)
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(l.limit-count, 0)))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if count <= l.limit {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", l.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func userOrIP(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIP(r)
}

func clientIP(r *http.Request) string {
	return strings.TrimSpace(shared.ClientIP(r))
}

// loginEmail peeks at the JSON body for the sign-in email and restores the body
// for the handler.
func loginEmail(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return clientIP(r)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil || strings.TrimSpace(payload.Email) == "" {
		return clientIP(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(payload.Email))
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

type sensitiveRoute struct {
	prefix   string
	suffixes []string
	scope    sensitiveScope
}

// An empty suffix list means the prefix must match the whole path.
var sensitiveRoutes = []sensitiveRoute{
	{prefix: "/auth/login", scope: sensitiveScopeAuth},
	{prefix: "/auth/mfa/", suffixes: []string{"/setup", "/enable", "/disable"}, scope: sensitiveScopeAuth},
	{prefix: "/auth/users", scope: sensitiveScopeActor},
	{prefix: "/jobs/reminders/run", scope: sensitiveScopeActor},
	{prefix: "/training-topics/", suffixes: []string{"/approve", "/reject", "/send-back"}, scope: sensitiveScopeActor},
	{prefix: "/trainings/", suffixes: []string{"/approve", "/reject", "/attempts"}, scope: sensitiveScopeActor},
	{prefix: "/training-schedules/", suffixes: []string{"/feedback"}, scope: sensitiveScopeActor},
}

func sensitiveRateScope(r *http.Request) sensitiveScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return sensitiveScopeNone
	}
	path := strings.TrimPrefix(strings.TrimSpace(r.URL.Path), "/api/v1")
	for _, route := range sensitiveRoutes {
		if len(route.suffixes) == 0 {
			if path == route.prefix {
				return route.scope
			}
			continue
		}
		if !strings.HasPrefix(path, route.prefix) {
			continue
		}
		for _, suffix := range route.suffixes {
			if strings.HasSuffix(path, suffix) {
				return route.scope
			}
		}
	}
	return sensitiveScopeNone
}
