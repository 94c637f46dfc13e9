package systemhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/platform/jobs"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Jobs interface {
	RunReminders(ctx context.Context) (jobs.ReminderResult, error)
}

type Metrics interface {
	Snapshot() map[string]any
}

type Handler struct {
	Jobs    Jobs
	Metrics Metrics
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(j Jobs, m Metrics, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Jobs: j, Metrics: m, Perms: perms, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermJobsRun, h.Perms)).Post("/jobs/reminders/run", h.handleRunReminders)
	r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Get("/metrics", h.handleMetrics)
}

func (h *Handler) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	result, err := h.Jobs.RunReminders(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "system.job.reminders",
		EntityType: "job_run",
		After:      result,
	})
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "metrics are disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
