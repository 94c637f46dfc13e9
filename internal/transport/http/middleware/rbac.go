package middleware

import (
	"context"
	"net/http"

	"trainhub/internal/platform/requestctx"
	"trainhub/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission admits callers whose role grants permission. A refusal
// names the missing permission so clients can tell which workflow role is needed.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleName, permission)
			if err != nil {
				requestctx.Logger(r.Context()).Error("permission lookup failed", "role", user.RoleName, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "permission check failed", requestID)
				return
			}
			if !allowed {
				requestctx.Logger(r.Context()).Info("permission denied", "userId", user.UserID, "role", user.RoleName, "permission", permission)
				api.FailWithDetails(w, http.StatusForbidden, "forbidden", "insufficient permissions",
					map[string]string{"permission": permission, "role": user.RoleName}, requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
