package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, email, password, mfaCode string) (auth.Session, error)
	Me(ctx context.Context, userID string) (auth.User, error)
	ListUsers(ctx context.Context) ([]auth.User, error)
	CreateUser(ctx context.Context, in auth.NewUser) (auth.User, error)
	SetupMFA(ctx context.Context, userID, accountName string) (auth.MFASetup, error)
	EnableMFA(ctx context.Context, userID, code string) error
	DisableMFA(ctx context.Context, userID, code string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type createUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required"`
	EmployeeID string `json:"employeeId" validate:"omitempty,uuid"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// RegisterPublicRoutes mounts the routes reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", h.HandleMe)
		r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Get("/users", h.HandleListUsers)
		r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Post("/users", h.HandleCreateUser)
		r.Post("/mfa/setup", h.HandleMFASetup)
		r.Post("/mfa/enable", h.HandleMFAEnable)
		r.Post("/mfa/disable", h.HandleMFADisable)
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.Decode(w, r, &payload) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, session.User.ID, audit.Entry{
		Action:     "auth.session.login",
		EntityType: "user",
		EntityID:   session.User.ID,
	})
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	me, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, me, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload createUserRequest
	if !shared.Decode(w, r, &payload) {
		return
	}

	created, err := h.Service.CreateUser(r.Context(), auth.NewUser{
		Email:      payload.Email,
		Password:   payload.Password,
		RoleName:   payload.Role,
		EmployeeID: payload.EmployeeID,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "auth.user.create",
		EntityType: "user",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	me, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	setup, err := h.Service.SetupMFA(r.Context(), user.UserID, me.Email)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "auth.mfa.setup",
		EntityType: "user",
		EntityID:   user.UserID,
	})
	api.Success(w, setup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, "auth.mfa.enable", h.Service.EnableMFA, "enabled")
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, "auth.mfa.disable", h.Service.DisableMFA, "disabled")
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, string, string) error, status string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload mfaCodeRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	if err := apply(r.Context(), user.UserID, payload.Code); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     action,
		EntityType: "user",
		EntityID:   user.UserID,
	})
	api.Success(w, map[string]string{"status": status}, middleware.GetRequestID(r.Context()))
}
