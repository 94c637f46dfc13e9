package capabilityhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/capability"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, generic *bool) ([]capability.Capability, error)
	Get(ctx context.Context, id string) (capability.Capability, error)
	Create(ctx context.Context, c capability.Capability) (capability.Capability, error)
	Update(ctx context.Context, id string, patch capability.Patch) (capability.Capability, error)
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
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	IsGeneric   bool   `json:"isGeneric"`
}

type patchRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	IsGeneric   *bool   `json:"isGeneric"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/capabilities", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCapabilitiesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCapabilitiesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCapabilitiesRead, h.Perms)).Get("/{capabilityID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermCapabilitiesWrite, h.Perms)).Patch("/{capabilityID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermCapabilitiesWrite, h.Perms)).Delete("/{capabilityID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var generic *bool
	if raw := r.URL.Query().Get("isGeneric"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "isGeneric", Reason: "must be true or false"}})
			return
		}
		generic = &v
	}
	items, err := h.Service.List(r.Context(), generic)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "capabilityID", "capability")
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
	created, err := h.Service.Create(r.Context(), capability.Capability{
		Name:        payload.Name,
		Description: payload.Description,
		IsGeneric:   payload.IsGeneric,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.capability.create",
		EntityType: "capability",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "capabilityID", "capability")
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
	updated, err := h.Service.Update(r.Context(), id, capability.Patch{
		Name:        payload.Name,
		Description: payload.Description,
		IsGeneric:   payload.IsGeneric,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.capability.update",
		EntityType: "capability",
		EntityID:   id,
		Before:     before,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "capabilityID", "capability")
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
		Action:     "catalog.capability.delete",
		EntityType: "capability",
		EntityID:   id,
		Before:     before,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
