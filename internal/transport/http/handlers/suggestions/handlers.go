package suggestionhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/suggestion"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, capabilityID string) ([]suggestion.Suggestion, error)
	Get(ctx context.Context, id string) (suggestion.Suggestion, error)
	Create(ctx context.Context, in suggestion.Input) (suggestion.Suggestion, error)
	Update(ctx context.Context, id string, patch suggestion.Patch) (suggestion.Suggestion, error)
	AppendTopics(ctx context.Context, id string, topics []string) (suggestion.Suggestion, error)
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
	CapabilityID     string   `json:"capabilityId" validate:"required,uuid"`
	RoleIDs          []string `json:"roleIds"`
	DepartmentIDs    []string `json:"departmentIds"`
	TrainingType     string   `json:"trainingType"`
	Level            *int     `json:"level"`
	Mandatory        *bool    `json:"mandatory"`
	TopicSuggestions []string `json:"topicSuggestions"`
	SelectedTopics   []string `json:"selectedTopics"`
	SuggestedBy      string   `json:"suggestedBy"`
}

type patchRequest struct {
	CapabilityID     *string  `json:"capabilityId" validate:"omitempty,uuid"`
	RoleIDs          []string `json:"roleIds"`
	DepartmentIDs    []string `json:"departmentIds"`
	TrainingType     *string  `json:"trainingType"`
	Level            *int     `json:"level"`
	Mandatory        *bool    `json:"mandatory"`
	TopicSuggestions []string `json:"topicSuggestions"`
	SelectedTopics   []string `json:"selectedTopics"`
}

type topicsRequest struct {
	Topics []string `json:"topics" validate:"required,min=1"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/training-suggestions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSuggestionsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSuggestionsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSuggestionsRead, h.Perms)).Get("/{suggestionID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSuggestionsWrite, h.Perms)).Patch("/{suggestionID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermSuggestionsWrite, h.Perms)).Post("/{suggestionID}/topics", h.handleAppendTopics)
		r.With(middleware.RequirePermission(auth.PermSuggestionsWrite, h.Perms)).Delete("/{suggestionID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("capabilityId"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "suggestionID", "training suggestion")
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
	suggestedBy := payload.SuggestedBy
	if suggestedBy == "" {
		suggestedBy = user.UserID
	}
	created, err := h.Service.Create(r.Context(), suggestion.Input{
		CapabilityID:     payload.CapabilityID,
		RoleIDs:          payload.RoleIDs,
		DepartmentIDs:    payload.DepartmentIDs,
		TrainingType:     payload.TrainingType,
		Level:            payload.Level,
		Mandatory:        payload.Mandatory,
		TopicSuggestions: payload.TopicSuggestions,
		SelectedTopics:   payload.SelectedTopics,
		SuggestedBy:      suggestedBy,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.suggestion.create",
		EntityType: "training_suggestion",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "suggestionID", "training suggestion")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload patchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	updated, err := h.Service.Update(r.Context(), id, suggestion.Patch{
		CapabilityID:     payload.CapabilityID,
		RoleIDs:          payload.RoleIDs,
		DepartmentIDs:    payload.DepartmentIDs,
		TrainingType:     payload.TrainingType,
		Level:            payload.Level,
		Mandatory:        payload.Mandatory,
		TopicSuggestions: payload.TopicSuggestions,
		SelectedTopics:   payload.SelectedTopics,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.suggestion.update",
		EntityType: "training_suggestion",
		EntityID:   id,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAppendTopics(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "suggestionID", "training suggestion")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload topicsRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	updated, err := h.Service.AppendTopics(r.Context(), id, payload.Topics)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.suggestion.topics",
		EntityType: "training_suggestion",
		EntityID:   id,
		After:      payload.Topics,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "suggestionID", "training suggestion")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "catalog.suggestion.delete",
		EntityType: "training_suggestion",
		EntityID:   id,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
