package scorehandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context) ([]scoring.LevelScore, error)
	Get(ctx context.Context, level int) (scoring.LevelScore, error)
	Upsert(ctx context.Context, level int, score *float64, userID string) (scoring.LevelScore, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor}
}

type upsertRequest struct {
	RequiredScore *float64 `json:"requiredScore"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/required-scores", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/{level}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermScoresWrite, h.Perms)).Put("/{level}", h.handleUpsert)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Get(r.Context(), level)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

// handleUpsert clamps the score into range and falls back to the default
// threshold when none is given.
func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	level, err := levelParam(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload upsertRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.Get(r.Context(), level)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	saved, err := h.Service.Upsert(r.Context(), level, payload.RequiredScore, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "scoring.level.update",
		EntityType: "required_score",
		EntityID:   strconv.Itoa(level),
		Before:     before,
		After:      saved,
	})
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func levelParam(r *http.Request) (int, error) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		return 0, apperr.Validation("level", "must be 1, 2 or 3")
	}
	return level, nil
}
