package evaluationhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/evaluation"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	Record(ctx context.Context, in evaluation.Input, evaluatedBy string) (evaluation.Score, error)
	Summary(ctx context.Context, employeeID string) (evaluation.Summary, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor}
}

type recordRequest struct {
	EmployeeID         string   `json:"employeeId" validate:"required,uuid"`
	TrainingScheduleID string   `json:"trainingScheduleId" validate:"required,uuid"`
	CapabilityID       *string  `json:"capabilityId" validate:"omitempty,uuid"`
	ScoreObtained      *float64 `json:"scoreObtained" validate:"required,gte=0"`
	MaxScore           *float64 `json:"maxScore" validate:"required,gt=0"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employee-scores", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Post("/", h.handleRecord)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/employee/{employeeID}", h.handleSummary)
	})
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload recordRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	created, err := h.Service.Record(r.Context(), evaluation.Input{
		EmployeeID:    payload.EmployeeID,
		ScheduleID:    payload.TrainingScheduleID,
		CapabilityID:  payload.CapabilityID,
		ScoreObtained: payload.ScoreObtained,
		MaxScore:      payload.MaxScore,
	}, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.employee_score.create",
		EntityType: "employee_score",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "employeeID", "employee")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	summary, err := h.Service.Summary(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
