package assessmenthandler

import (
	"cmp"
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/assessment"
	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter assessment.Filter) ([]assessment.Assessment, error)
	Get(ctx context.Context, id string) (assessment.Assessment, error)
	Create(ctx context.Context, in assessment.Input) (assessment.Assessment, error)
	Update(ctx context.Context, id string, patch assessment.Patch) (assessment.Assessment, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
	Now     func() time.Time
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor, Now: time.Now}
}

type createRequest struct {
	CapabilityID               string   `json:"capabilityId" validate:"required,uuid"`
	RoleID                     string   `json:"roleId" validate:"required"`
	DepartmentID               string   `json:"departmentId"`
	DepartmentHead             string   `json:"departmentHead"`
	ManagementLevel            *int     `json:"managementLevel" validate:"omitempty,gte=1,lte=4"`
	RequiredScore              *float64 `json:"requiredScore" validate:"required"`
	MaximumScore               *float64 `json:"maximumScore" validate:"required"`
	ScoreAchieved              *float64 `json:"scoreAchieved"`
	Mandatory                  bool     `json:"mandatory"`
	AssessmentLink             string   `json:"assessmentLink" validate:"omitempty,url"`
	TrainingMandatoryAfterTest bool     `json:"trainingMandatoryAfterTest"`
}

type patchRequest struct {
	CapabilityID               *string  `json:"capabilityId" validate:"omitempty,uuid"`
	RoleID                     *string  `json:"roleId" validate:"omitempty,min=1"`
	DepartmentID               *string  `json:"departmentId"`
	DepartmentHead             *string  `json:"departmentHead"`
	ManagementLevel            *int     `json:"managementLevel" validate:"omitempty,gte=1,lte=4"`
	RequiredScore              *float64 `json:"requiredScore"`
	MaximumScore               *float64 `json:"maximumScore"`
	ScoreAchieved              *float64 `json:"scoreAchieved"`
	ClearScore                 bool     `json:"clearScore"`
	Mandatory                  *bool    `json:"mandatory"`
	AssessmentLink             *string  `json:"assessmentLink" validate:"omitempty,url"`
	TrainingMandatoryAfterTest *bool    `json:"trainingMandatoryAfterTest"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/capability-assessments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/report.pdf", h.handleReport)
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/{assessmentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Patch("/{assessmentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Delete("/{assessmentID}", h.handleDelete)
	})
	r.With(middleware.RequirePermission(auth.PermCapabilitiesRead, h.Perms)).Get("/capability-role-map", h.handleRoleMap)
}

func filterFrom(r *http.Request) assessment.Filter {
	q := r.URL.Query()
	return assessment.Filter{
		CapabilityID: q.Get("capabilityId"),
		RoleID:       q.Get("roleId"),
		Department:   q.Get("department"),
		GapsOnly:     q.Get("gapsOnly") == "true",
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), filterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), filterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	slices.SortStableFunc(items, func(a, b assessment.Assessment) int {
		return cmp.Compare(gapOf(b), gapOf(a))
	})
	pdf, err := assessment.RenderGapReport(items, h.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=capability-gaps.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func gapOf(a assessment.Assessment) float64 {
	if a.Gap == nil {
		return -1
	}
	return *a.Gap
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "assessmentID", "assessment")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload createRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	created, err := h.Service.Create(r.Context(), assessment.Input{
		CapabilityID:               payload.CapabilityID,
		RoleID:                     payload.RoleID,
		DepartmentID:               payload.DepartmentID,
		DepartmentHead:             payload.DepartmentHead,
		ManagementLevel:            payload.ManagementLevel,
		RequiredScore:              payload.RequiredScore,
		MaximumScore:               payload.MaximumScore,
		ScoreAchieved:              payload.ScoreAchieved,
		Mandatory:                  payload.Mandatory,
		AssessmentLink:             payload.AssessmentLink,
		TrainingMandatoryAfterTest: payload.TrainingMandatoryAfterTest,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.assessment.create",
		EntityType: "capability_assessment",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "assessmentID", "assessment")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload patchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), id, assessment.Patch{
		CapabilityID:               payload.CapabilityID,
		RoleID:                     payload.RoleID,
		DepartmentID:               payload.DepartmentID,
		DepartmentHead:             payload.DepartmentHead,
		ManagementLevel:            payload.ManagementLevel,
		RequiredScore:              payload.RequiredScore,
		MaximumScore:               payload.MaximumScore,
		ScoreAchieved:              payload.ScoreAchieved,
		ClearScore:                 payload.ClearScore,
		Mandatory:                  payload.Mandatory,
		AssessmentLink:             payload.AssessmentLink,
		TrainingMandatoryAfterTest: payload.TrainingMandatoryAfterTest,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.assessment.update",
		EntityType: "capability_assessment",
		EntityID:   id,
		Before:     before,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "assessmentID", "assessment")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.assessment.delete",
		EntityType: "capability_assessment",
		EntityID:   id,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
