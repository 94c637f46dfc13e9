package schedulehandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/directory"
	"trainhub/internal/domain/feedback"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/schedule"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/requestctx"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter schedule.Filter) ([]schedule.Schedule, error)
	Pending(ctx context.Context) ([]schedule.Schedule, error)
	Get(ctx context.Context, id string) (schedule.Schedule, error)
	Create(ctx context.Context, in schedule.Input, actor string) (schedule.Schedule, error)
	Update(ctx context.Context, id string, patch schedule.Patch) (schedule.Schedule, error)
	SetStatus(ctx context.Context, id, target string, trainingDate *time.Time, remarks, actor string) (schedule.Schedule, workflow.Transition, error)
	Delete(ctx context.Context, id string) error
	Audience(ctx context.Context, id string) ([]directory.Employee, error)
	RecipientUserIDs(ctx context.Context, id string) ([]string, error)
}

type Feedback interface {
	CanSubmit(ctx context.Context, scheduleID, employeeID string) (feedback.Eligibility, error)
	Submit(ctx context.Context, scheduleID, employeeID string, rating int, comments string) (feedback.Feedback, error)
	List(ctx context.Context, scheduleID string) (feedback.Summary, error)
}

type Broadcaster interface {
	Broadcast(ctx context.Context, userIDs []string, ntype, title, body string) int
}

// Jobs hands feedback-open notices to the background queue.
type Jobs interface {
	EnqueueFeedbackOpen(scheduleID string)
}

type Handler struct {
	Service  Service
	Feedback Feedback
	Perms    middleware.PermissionStore
	Audit    shared.Auditor
	Notify   Broadcaster
	Jobs     Jobs
}

func NewHandler(service Service, fb Feedback, perms middleware.PermissionStore, auditor shared.Auditor, notifier Broadcaster, jobs Jobs) *Handler {
	return &Handler{Service: service, Feedback: fb, Perms: perms, Audit: auditor, Notify: notifier, Jobs: jobs}
}

type audienceRequest struct {
	Type        string   `json:"type" validate:"required"`
	Departments []string `json:"departments"`
	Levels      []int    `json:"levels" validate:"omitempty,dive,gte=1,lte=4"`
	Roles       []string `json:"roles"`
}

func (a audienceRequest) domain() schedule.Audience {
	return schedule.Audience{Type: a.Type, Departments: a.Departments, Levels: a.Levels, Roles: a.Roles}
}

type createRequest struct {
	TrainingID          string          `json:"trainingId" validate:"omitempty,uuid"`
	TrainingName        string          `json:"trainingName"`
	CapabilityArea      string          `json:"capabilityArea"`
	CapabilitySkill     string          `json:"capabilitySkill"`
	TrainerName         string          `json:"trainerName"`
	Type                string          `json:"type"`
	TrainingDate        string          `json:"trainingDate" validate:"required"`
	StartTime           string          `json:"startTime" validate:"required"`
	EndTime             string          `json:"endTime" validate:"required"`
	Venue               string          `json:"venue"`
	OnlineLink          string          `json:"onlineLink"`
	TargetAudience      audienceRequest `json:"targetAudience"`
	AttendanceRequired  *bool           `json:"attendanceRequired"`
	MaxAttempts         *int            `json:"maxAttempts" validate:"omitempty,eq=2"`
	FeedbackWindowHours *int            `json:"feedbackWindowHours" validate:"omitempty,gte=1"`
}

type patchRequest struct {
	TrainingName        *string          `json:"trainingName"`
	CapabilityArea      *string          `json:"capabilityArea"`
	CapabilitySkill     *string          `json:"capabilitySkill"`
	TrainerName         *string          `json:"trainerName"`
	Type                *string          `json:"type"`
	TrainingDate        *string          `json:"trainingDate"`
	StartTime           *string          `json:"startTime"`
	EndTime             *string          `json:"endTime"`
	Venue               *string          `json:"venue"`
	OnlineLink          *string          `json:"onlineLink"`
	TargetAudience      *audienceRequest `json:"targetAudience"`
	AttendanceRequired  *bool            `json:"attendanceRequired"`
	MaxAttempts         *int             `json:"maxAttempts" validate:"omitempty,eq=2"`
	FeedbackWindowHours *int             `json:"feedbackWindowHours" validate:"omitempty,gte=1"`
}

type statusRequest struct {
	Status       string `json:"status" validate:"required"`
	TrainingDate string `json:"trainingDate"`
	Remarks      string `json:"remarks"`
}

type feedbackRequest struct {
	EmployeeID string `json:"employeeId"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comments   string `json:"comments"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/training-schedules", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSchedulesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSchedulesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSchedulesRead, h.Perms)).Get("/pending", h.handlePending)
		r.With(middleware.RequirePermission(auth.PermSchedulesRead, h.Perms)).Get("/{scheduleID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSchedulesWrite, h.Perms)).Patch("/{scheduleID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermSchedulesWrite, h.Perms)).Delete("/{scheduleID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermSchedulesWrite, h.Perms)).Post("/{scheduleID}/status", h.handleStatus)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/{scheduleID}/audience", h.handleAudience)
		r.With(middleware.RequirePermission(auth.PermSchedulesRead, h.Perms)).Get("/{scheduleID}/feedback/can-submit", h.handleCanSubmit)
		r.With(middleware.RequirePermission(auth.PermFeedbackWrite, h.Perms)).Post("/{scheduleID}/feedback", h.handleSubmitFeedback)
		r.With(middleware.RequirePermission(auth.PermFeedbackRead, h.Perms)).Get("/{scheduleID}/feedback", h.handleListFeedback)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Service.List(r.Context(), schedule.Filter{
		Trainer:    q.Get("trainer"),
		Status:     q.Get("status"),
		EmployeeID: q.Get("employeeId"),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Pending(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
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
	v := shared.NewValidator()
	date, _ := v.Date("trainingDate", payload.TrainingDate)
	v.Clock("startTime", payload.StartTime)
	v.Clock("endTime", payload.EndTime)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	created, err := h.Service.Create(r.Context(), schedule.Input{
		TrainingID:          payload.TrainingID,
		TrainingName:        payload.TrainingName,
		CapabilityArea:      payload.CapabilityArea,
		CapabilitySkill:     payload.CapabilitySkill,
		TrainerName:         payload.TrainerName,
		Type:                payload.Type,
		TrainingDate:        date,
		StartTime:           payload.StartTime,
		EndTime:             payload.EndTime,
		Venue:               payload.Venue,
		OnlineLink:          payload.OnlineLink,
		TargetAudience:      payload.TargetAudience.domain(),
		AttendanceRequired:  payload.AttendanceRequired,
		MaxAttempts:         payload.MaxAttempts,
		FeedbackWindowHours: payload.FeedbackWindowHours,
	}, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule.create",
		EntityType: "training_schedule",
		EntityID:   created.ID,
		After:      created,
	})
	h.broadcast(r.Context(), created.ID, notifications.TypeTrainingScheduled,
		"Training scheduled", created.TrainingName+" is scheduled for "+created.TrainingDate.Format("2006-01-02"))
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload patchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	patch := schedule.Patch{
		TrainingName:        payload.TrainingName,
		CapabilityArea:      payload.CapabilityArea,
		CapabilitySkill:     payload.CapabilitySkill,
		TrainerName:         payload.TrainerName,
		Type:                payload.Type,
		StartTime:           payload.StartTime,
		EndTime:             payload.EndTime,
		Venue:               payload.Venue,
		OnlineLink:          payload.OnlineLink,
		AttendanceRequired:  payload.AttendanceRequired,
		MaxAttempts:         payload.MaxAttempts,
		FeedbackWindowHours: payload.FeedbackWindowHours,
	}
	if payload.TargetAudience != nil {
		audience := payload.TargetAudience.domain()
		patch.TargetAudience = &audience
	}
	v := shared.NewValidator()
	if payload.TrainingDate != nil {
		date, _ := v.Date("trainingDate", *payload.TrainingDate)
		patch.TrainingDate = &date
	}
	if payload.StartTime != nil {
		v.Clock("startTime", *payload.StartTime)
	}
	if payload.EndTime != nil {
		v.Clock("endTime", *payload.EndTime)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule.update",
		EntityType: "training_schedule",
		EntityID:   id,
		Before:     before,
		After:      updated,
	})
	if moved(before, updated) {
		h.broadcast(r.Context(), id, notifications.TypeScheduleChanged,
			"Training schedule changed", updated.TrainingName+" now runs on "+updated.TrainingDate.Format("2006-01-02")+" "+updated.StartTime)
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule.delete",
		EntityType: "training_schedule",
		EntityID:   id,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload statusRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Enum("status", payload.Status, string(workflow.ScheduleRescheduled), string(workflow.ScheduleCompleted), string(workflow.ScheduleCancelled))
	var date *time.Time
	if payload.TrainingDate != "" {
		parsed, _ := v.Date("trainingDate", payload.TrainingDate)
		date = &parsed
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	updated, tr, err := h.Service.SetStatus(r.Context(), id, payload.Status, date, payload.Remarks, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule." + string(tr.Action),
		EntityType: "training_schedule",
		EntityID:   id,
		Before:     map[string]any{"status": tr.From},
		After:      map[string]any{"status": tr.To, "trainingDate": updated.TrainingDate, "remarks": payload.Remarks},
	})
	switch tr.To {
	case workflow.ScheduleCompleted:
		if h.Jobs != nil {
			h.Jobs.EnqueueFeedbackOpen(id)
		}
	case workflow.ScheduleRescheduled:
		h.broadcast(r.Context(), id, notifications.TypeScheduleChanged,
			"Training rescheduled", updated.TrainingName+" moved to "+updated.TrainingDate.Format("2006-01-02"))
	case workflow.ScheduleCancelled:
		h.broadcast(r.Context(), id, notifications.TypeScheduleChanged,
			"Training cancelled", updated.TrainingName+" on "+updated.TrainingDate.Format("2006-01-02")+" was cancelled")
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAudience(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	members, err := h.Service.Audience(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCanSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	employeeID, err := shared.ActingEmployee(user, r.URL.Query().Get("employeeId"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	eligibility, err := h.Feedback.CanSubmit(r.Context(), id, employeeID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, eligibility, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload feedbackRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	employeeID, err := shared.ActingEmployee(user, payload.EmployeeID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	saved, err := h.Feedback.Submit(r.Context(), id, employeeID, payload.Rating, payload.Comments)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.schedule_feedback.create",
		EntityType: "training_feedback",
		EntityID:   saved.ID,
		After:      saved,
	})
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	summary, err := h.Feedback.List(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

// broadcast notifies the schedule's audience. Failures are logged only.
func (h *Handler) broadcast(ctx context.Context, id, ntype, title, body string) {
	if h.Notify == nil {
		return
	}
	userIDs, err := h.Service.RecipientUserIDs(ctx, id)
	if err != nil {
		requestctx.Logger(ctx).Warn("schedule recipients lookup failed", "err", err, "scheduleId", id)
		return
	}
	if len(userIDs) > 0 {
		h.Notify.Broadcast(ctx, userIDs, ntype, title, body)
	}
}

func moved(before, after schedule.Schedule) bool {
	return !before.TrainingDate.Equal(after.TrainingDate) ||
		before.StartTime != after.StartTime ||
		before.Venue != after.Venue ||
		before.OnlineLink != after.OnlineLink
}

func scheduleID(r *http.Request) (string, error) {
	return shared.PathID(r, "scheduleID", "training schedule")
}
