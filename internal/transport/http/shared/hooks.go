package shared

import (
	"context"
	"log/slog"
	"net/http"

	"trainhub/internal/domain/audit"
	"trainhub/internal/platform/requestctx"
)

type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

type Notifier interface {
	Create(ctx context.Context, userID, ntype, title, body string) error
}

// RecordAudit stamps the request id and client ip onto entry before recording it.
// A failed audit write is logged and never fails the request.
func RecordAudit(r *http.Request, auditor Auditor, actorID string, entry audit.Entry) {
	if auditor == nil {
		return
	}
	entry.ActorID = actorID
	entry.RequestID = requestctx.GetRequestID(r.Context())
	entry.IP = ClientIP(r)
	if err := auditor.Record(r.Context(), entry); err != nil {
		slog.Warn("audit "+entry.Action+" failed", "err", err)
	}
}

// NotifyUser is a no-op for a nil or empty recipient.
func NotifyUser(ctx context.Context, notifier Notifier, userID *string, ntype, title, body string) {
	if notifier == nil || userID == nil || *userID == "" {
		return
	}
	if err := notifier.Create(ctx, *userID, ntype, title, body); err != nil {
		slog.Warn("notification "+ntype+" failed", "err", err)
	}
}
