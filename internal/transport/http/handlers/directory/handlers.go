package directoryhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/directory"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	ListEmployees(ctx context.Context, filter directory.EmployeeFilter) ([]directory.Employee, int, error)
	Employee(ctx context.Context, id string) (directory.Employee, error)
	CreateEmployee(ctx context.Context, e directory.Employee) (directory.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch directory.EmployeePatch) (directory.Employee, error)
	ListDepartments(ctx context.Context) ([]directory.Department, error)
	Department(ctx context.Context, id string) (directory.Department, error)
	CreateDepartment(ctx context.Context, d directory.Department) (directory.Department, error)
	UpdateDepartment(ctx context.Context, id string, patch directory.DepartmentPatch) (directory.Department, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor}
}

type employeeRequest struct {
	EmployeeCode  string `json:"employeeCode" validate:"required"`
	FullName      string `json:"fullName" validate:"required"`
	OfficialEmail string `json:"officialEmail" validate:"required,email"`
	Department    string `json:"department" validate:"required"`
	Designation   string `json:"designation"`
	Level         int    `json:"level" validate:"required,gte=1,lte=4"`
}

type employeePatchRequest struct {
	EmployeeCode  *string `json:"employeeCode" validate:"omitempty,min=1"`
	FullName      *string `json:"fullName" validate:"omitempty,min=1"`
	OfficialEmail *string `json:"officialEmail" validate:"omitempty,email"`
	Department    *string `json:"department" validate:"omitempty,min=1"`
	Designation   *string `json:"designation"`
	Level         *int    `json:"level" validate:"omitempty,gte=1,lte=4"`
}

type departmentRequest struct {
	Name       string `json:"name" validate:"required"`
	HeadEmail  string `json:"headEmail" validate:"omitempty,email"`
	GroupEmail string `json:"groupEmail" validate:"omitempty,email"`
	ParentName string `json:"parentName"`
}

type departmentPatchRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	HeadEmail  *string `json:"headEmail" validate:"omitempty,email"`
	GroupEmail *string `json:"groupEmail" validate:"omitempty,email"`
	ParentName *string `json:"parentName"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)).Patch("/{employeeID}", h.handleUpdateEmployee)
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/{departmentID}", h.handleGetDepartment)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)).Patch("/{departmentID}", h.handleUpdateDepartment)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 1000)
	filter := directory.EmployeeFilter{
		Department: r.URL.Query().Get("department"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil || level < directory.MinLevel || level > directory.MaxLevel {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "level", Reason: "must be between 1 and 4"}})
			return
		}
		filter.Level = level
	}

	items, total, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "employeeID", "employee")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Employee(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload employeeRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	created, err := h.Service.CreateEmployee(r.Context(), directory.Employee{
		EmployeeCode:  payload.EmployeeCode,
		FullName:      payload.FullName,
		OfficialEmail: payload.OfficialEmail,
		Department:    payload.Department,
		Designation:   payload.Designation,
		Level:         payload.Level,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "directory.employee.create",
		EntityType: "employee",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "employeeID", "employee")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload employeePatchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.Employee(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	updated, err := h.Service.UpdateEmployee(r.Context(), id, directory.EmployeePatch{
		EmployeeCode:  payload.EmployeeCode,
		FullName:      payload.FullName,
		OfficialEmail: payload.OfficialEmail,
		Department:    payload.Department,
		Designation:   payload.Designation,
		Level:         payload.Level,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "directory.employee.update",
		EntityType: "employee",
		EntityID:   id,
		Before:     before,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "departmentID", "department")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	item, err := h.Service.Department(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload departmentRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	created, err := h.Service.CreateDepartment(r.Context(), directory.Department{
		Name:       payload.Name,
		HeadEmail:  payload.HeadEmail,
		GroupEmail: payload.GroupEmail,
		ParentName: payload.ParentName,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "directory.department.create",
		EntityType: "department",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "departmentID", "department")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload departmentPatchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	updated, err := h.Service.UpdateDepartment(r.Context(), id, directory.DepartmentPatch{
		Name:       payload.Name,
		HeadEmail:  payload.HeadEmail,
		GroupEmail: payload.GroupEmail,
		ParentName: payload.ParentName,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "directory.department.update",
		EntityType: "department",
		EntityID:   id,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}
