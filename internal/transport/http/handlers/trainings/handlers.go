package traininghandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/attempt"
	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/training"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/requestctx"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

const attemptsEndpoint = "trainings.attempts"

type Service interface {
	List(ctx context.Context, status string, limit, offset int) ([]training.Training, int, error)
	Get(ctx context.Context, id string) (training.Training, error)
	Create(ctx context.Context, p training.Phase1, createdBy string) (training.Training, error)
	Patch(ctx context.Context, id string, patch training.Phase1Patch, actor string) (training.Training, error)
	UpdatePhase2(ctx context.Context, id string, p training.Phase2) (training.Training, error)
	Approve(ctx context.Context, id, actor, remarks string) (training.Training, workflow.Transition, error)
	Reject(ctx context.Context, id, actor, remarks string) (training.Training, workflow.Transition, error)
	Schedule(ctx context.Context, id, actor string, date time.Time) (training.Training, workflow.Transition, error)
	Archive(ctx context.Context, id, actor string) (training.Training, workflow.Transition, error)
	Delete(ctx context.Context, id string) error
	AddFeedback(ctx context.Context, id string, entry training.FeedbackEntry) (training.FeedbackEntry, error)
	ListFeedback(ctx context.Context, id string) ([]training.FeedbackEntry, error)
	RequiredScore(ctx context.Context, id, employeeID string) (scoring.Resolution, error)
}

type Attempts interface {
	Record(ctx context.Context, trainingID, employeeID string, score *float64) (attempt.Result, error)
	History(ctx context.Context, trainingID, employeeID string) (attempt.History, error)
}

// Replays stores responses keyed by the Idempotency-Key header.
type Replays interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

type Handler struct {
	Service  Service
	Attempts Attempts
	Replays  Replays
	Perms    middleware.PermissionStore
	Audit    shared.Auditor
	Notify   shared.Notifier
}

func NewHandler(service Service, attempts Attempts, replays Replays, perms middleware.PermissionStore, auditor shared.Auditor, notifier shared.Notifier) *Handler {
	return &Handler{Service: service, Attempts: attempts, Replays: replays, Perms: perms, Audit: auditor, Notify: notifier}
}

type phase1Request struct {
	Departments      []string `json:"departments"`
	Designation      string   `json:"designation"`
	Category         string   `json:"category"`
	TrainingType     string   `json:"trainingType" validate:"required"`
	Level            *int     `json:"level" validate:"omitempty,gte=1,lte=3"`
	Capabilities     []string `json:"capabilities"`
	TopicSuggestions []string `json:"topicSuggestions"`
	SelectedTopic    string   `json:"selectedTopic"`
}

type patchRequest struct {
	Departments      []string `json:"departments"`
	Designation      *string  `json:"designation"`
	Category         *string  `json:"category"`
	TrainingType     *string  `json:"trainingType"`
	Level            *int     `json:"level" validate:"omitempty,gte=1,lte=3"`
	Capabilities     []string `json:"capabilities"`
	TopicSuggestions []string `json:"topicSuggestions"`
	SelectedTopic    *string  `json:"selectedTopic"`
	ScheduledDate    *string  `json:"scheduledDate"`
}

type decisionRequest struct {
	Remarks string `json:"remarks"`
}

type scheduleRequest struct {
	ScheduledDate string `json:"scheduledDate" validate:"required"`
}

type feedbackRequest struct {
	Participant string `json:"participant"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comments    string `json:"comments"`
}

type attemptRequest struct {
	EmployeeID    string   `json:"employeeId"`
	ScoreAchieved *float64 `json:"scoreAchieved" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trainings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/{trainingID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Patch("/{trainingID}", h.handlePatch)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Put("/{trainingID}/phase2", h.handlePhase2)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Delete("/{trainingID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermTrainingsApprove, h.Perms)).Post("/{trainingID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermTrainingsApprove, h.Perms)).Post("/{trainingID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Post("/{trainingID}/schedule", h.handleSchedule)
		r.With(middleware.RequirePermission(auth.PermTrainingsWrite, h.Perms)).Post("/{trainingID}/archive", h.handleArchive)
		r.With(middleware.RequirePermission(auth.PermFeedbackWrite, h.Perms)).Post("/{trainingID}/feedback", h.handleAddFeedback)
		r.With(middleware.RequirePermission(auth.PermFeedbackRead, h.Perms)).Get("/{trainingID}/feedback", h.handleListFeedback)
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/{trainingID}/required-score", h.handleRequiredScore)
		r.With(middleware.RequirePermission(auth.PermAttemptsWrite, h.Perms)).Post("/{trainingID}/attempts", h.handleRecordAttempt)
		r.With(middleware.RequirePermission(auth.PermTrainingsRead, h.Perms)).Get("/{trainingID}/attempts", h.handleAttemptHistory)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	items, total, err := h.Service.List(r.Context(), r.URL.Query().Get("workflowStatus"), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteTotal(w, total)
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := trainingID(r)
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
	var payload phase1Request
	if !shared.Decode(w, r, &payload) {
		return
	}
	created, err := h.Service.Create(r.Context(), training.Phase1{
		Departments:      payload.Departments,
		Designation:      payload.Designation,
		Category:         payload.Category,
		TrainingType:     payload.TrainingType,
		Level:            payload.Level,
		Capabilities:     payload.Capabilities,
		TopicSuggestions: payload.TopicSuggestions,
		SelectedTopic:    payload.SelectedTopic,
	}, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.training.create",
		EntityType: "training",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload patchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	patch := training.Phase1Patch{
		Departments:      payload.Departments,
		Designation:      payload.Designation,
		Category:         payload.Category,
		TrainingType:     payload.TrainingType,
		Level:            payload.Level,
		Capabilities:     payload.Capabilities,
		TopicSuggestions: payload.TopicSuggestions,
		SelectedTopic:    payload.SelectedTopic,
	}
	if payload.ScheduledDate != nil {
		v := shared.NewValidator()
		date, _ := v.Date("scheduledDate", *payload.ScheduledDate)
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
		patch.ScheduledDate = &date
	}
	updated, err := h.Service.Patch(r.Context(), id, patch, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.training.update",
		EntityType: "training",
		EntityID:   id,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePhase2(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload training.Phase2
	if !shared.Decode(w, r, &payload) {
		return
	}
	updated, err := h.Service.UpdatePhase2(r.Context(), id, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.training.phase2",
		EntityType: "training",
		EntityID:   id,
		After:      updated.Phase2,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.training.delete",
		EntityType: "training",
		EntityID:   id,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve, notifications.TypeTrainingApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject, notifications.TypeTrainingRejected)
}

type decision func(ctx context.Context, id, actor, remarks string) (training.Training, workflow.Transition, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, apply decision, ntype string) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload decisionRequest
	if r.ContentLength != 0 && !shared.Decode(w, r, &payload) {
		return
	}
	updated, tr, err := apply(r.Context(), id, user.UserID, payload.Remarks)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.recordTransition(r, user.UserID, id, tr)

	body := "Training " + updated.TrainingCode + " was " + string(updated.WorkflowStatus)
	if payload.Remarks != "" {
		body += ": " + payload.Remarks
	}
	shared.NotifyUser(r.Context(), h.Notify, updated.CreatedBy, ntype, "Training "+string(updated.WorkflowStatus), body)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload scheduleRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	date, _ := v.Date("scheduledDate", payload.ScheduledDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	updated, tr, err := h.Service.Schedule(r.Context(), id, user.UserID, date)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.recordTransition(r, user.UserID, id, tr)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	updated, tr, err := h.Service.Archive(r.Context(), id, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if !tr.Noop {
		h.recordTransition(r, user.UserID, id, tr)
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordTransition(r *http.Request, actorID, id string, tr workflow.Transition) {
	shared.RecordAudit(r, h.Audit, actorID, audit.Entry{
		Action:     "training.training." + string(tr.Action),
		EntityType: "training",
		EntityID:   id,
		Before:     map[string]any{"workflowStatus": tr.From},
		After:      map[string]any{"workflowStatus": tr.To, "remarks": tr.Remarks},
	})
}

func (h *Handler) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload feedbackRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	entry, err := h.Service.AddFeedback(r.Context(), id, training.FeedbackEntry{
		Participant: payload.Participant,
		Rating:      payload.Rating,
		Comments:    payload.Comments,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.feedback.create",
		EntityType: "training_feedback",
		EntityID:   entry.ID,
		After:      entry,
	})
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	items, err := h.Service.ListFeedback(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequiredScore(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	employeeID, err := shared.ActingEmployee(user, r.URL.Query().Get("employeeId"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	resolution, err := h.Service.RequiredScore(r.Context(), id, employeeID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, resolution, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload attemptRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	employeeID, err := shared.ActingEmployee(user, payload.EmployeeID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	key, err := middleware.IdempotencyKey(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_idempotency_key", err.Error(), requestID)
		return
	}
	requestHash := attemptHash(id, employeeID, *payload.ScoreAchieved)
	if key != "" && h.Replays != nil {
		stored, found, err := h.Replays.Check(r.Context(), user.UserID, attemptsEndpoint, key, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
			return
		}
		if err != nil {
			requestctx.Logger(r.Context()).Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Created(w, stored, requestID)
			return
		}
	}

	result, err := h.Attempts.Record(r.Context(), id, employeeID, payload.ScoreAchieved)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.attempt.create",
		EntityType: "training_attempt",
		EntityID:   result.Attempt.ID,
		After:      result,
	})
	if key != "" && h.Replays != nil {
		encoded, err := json.Marshal(result)
		if err == nil {
			err = h.Replays.Save(r.Context(), user.UserID, attemptsEndpoint, key, requestHash, encoded)
		}
		if err != nil {
			requestctx.Logger(r.Context()).Warn("idempotency save failed", "err", err)
		}
	}
	api.Created(w, result, requestID)
}

func (h *Handler) handleAttemptHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := trainingID(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	employeeID, err := shared.ActingEmployee(user, r.URL.Query().Get("employeeId"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	history, err := h.Attempts.History(r.Context(), id, employeeID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

func trainingID(r *http.Request) (string, error) {
	return shared.PathID(r, "trainingID", "training")
}

func attemptHash(trainingID, employeeID string, score float64) string {
	return middleware.RequestHash([]byte(trainingID + "|" + employeeID + "|" + strconv.FormatFloat(score, 'f', -1, 64)))
}
