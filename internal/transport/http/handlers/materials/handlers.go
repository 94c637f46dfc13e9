package materialhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/material"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter material.Filter) ([]material.Material, error)
	Get(ctx context.Context, id string) (material.Material, error)
	Create(ctx context.Context, m material.Material, uploadedBy string) (material.Material, error)
	Update(ctx context.Context, id string, patch material.Patch) (material.Material, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor}
}

type createRequest struct {
	TrainingScheduleID string  `json:"trainingScheduleId" validate:"required,uuid"`
	ContentFile        string  `json:"contentFile" validate:"max=500"`
	VideoURL           string  `json:"videoUrl" validate:"omitempty,url,max=500"`
	AssessmentID       *string `json:"assessmentId" validate:"omitempty,uuid"`
}

type patchRequest struct {
	ContentFile  *string `json:"contentFile" validate:"omitempty,max=500"`
	VideoURL     *string `json:"videoUrl" validate:"omitempty,url,max=500"`
	AssessmentID *string `json:"assessmentId"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/training-materials", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMaterialsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermMaterialsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermMaterialsRead, h.Perms)).Get("/{materialID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermMaterialsWrite, h.Perms)).Patch("/{materialID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermMaterialsWrite, h.Perms)).Delete("/{materialID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), material.Filter{
		ScheduleID: r.URL.Query().Get("trainingScheduleId"),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if items == nil {
		items = []material.Material{}
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "materialID", "training material")
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
	created, err := h.Service.Create(r.Context(), material.Material{
		ScheduleID:   payload.TrainingScheduleID,
		ContentFile:  payload.ContentFile,
		VideoURL:     payload.VideoURL,
		AssessmentID: payload.AssessmentID,
	}, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule_material.create",
		EntityType: "training_material",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "materialID", "training material")
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
	updated, err := h.Service.Update(r.Context(), id, material.Patch{
		ContentFile:  payload.ContentFile,
		VideoURL:     payload.VideoURL,
		AssessmentID: payload.AssessmentID,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule_material.update",
		EntityType: "training_material",
		EntityID:   id,
		Before:     before,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "materialID", "training material")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule_material.delete",
		EntityType: "training_material",
		EntityID:   id,
		Before:     before,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
