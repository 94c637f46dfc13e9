package topichandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/domain/audit"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/notifications"
	"trainhub/internal/domain/topic"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, status string) ([]topic.Topic, error)
	Get(ctx context.Context, id string) (topic.Topic, error)
	Create(ctx context.Context, t topic.Topic, createdBy string) (topic.Topic, error)
	Update(ctx context.Context, id string, patch topic.Patch) (topic.Topic, error)
	Delete(ctx context.Context, id string) error
	Act(ctx context.Context, id string, action workflow.Action, actor, remarks string) (topic.Topic, workflow.Transition, error)
}

// Approvers finds the users to alert when a topic waits for a decision.
type Approvers interface {
	UserIDsWithRole(ctx context.Context, roles ...string) ([]string, error)
}

type Handler struct {
	Service   Service
	Perms     middleware.PermissionStore
	Audit     shared.Auditor
	Notify    shared.Notifier
	Approvers Approvers
}

func NewHandler(service Service, perms middleware.PermissionStore, auditor shared.Auditor, notifier shared.Notifier, approvers Approvers) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditor, Notify: notifier, Approvers: approvers}
}

type createRequest struct {
	TrainingName         string `json:"trainingName" validate:"required"`
	TrainerName          string `json:"trainerName" validate:"required"`
	CapabilityArea       string `json:"capabilityArea" validate:"required"`
	CapabilitySkill      string `json:"capabilitySkill" validate:"required"`
	Type                 string `json:"type" validate:"required"`
	ProposedScheduleDate string `json:"proposedScheduleDate" validate:"required"`
	ContentLink          string `json:"contentLink"`
	VideoLink            string `json:"videoLink"`
	AssessmentLink       string `json:"assessmentLink"`
}

type patchRequest struct {
	TrainingName         *string `json:"trainingName"`
	TrainerName          *string `json:"trainerName"`
	CapabilityArea       *string `json:"capabilityArea"`
	CapabilitySkill      *string `json:"capabilitySkill"`
	Type                 *string `json:"type"`
	ProposedScheduleDate *string `json:"proposedScheduleDate"`
	ContentLink          *string `json:"contentLink"`
	VideoLink            *string `json:"videoLink"`
	AssessmentLink       *string `json:"assessmentLink"`
}

type decisionRequest struct {
	Remarks string `json:"remarks"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/training-topics", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTopicsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTopicsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTopicsRead, h.Perms)).Get("/{topicID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermTopicsWrite, h.Perms)).Patch("/{topicID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermTopicsWrite, h.Perms)).Delete("/{topicID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermTopicsWrite, h.Perms)).Post("/{topicID}/submit", h.action(workflow.ActionSubmit))
		r.With(middleware.RequirePermission(auth.PermTopicsApprove, h.Perms)).Post("/{topicID}/approve", h.action(workflow.ActionApprove))
		r.With(middleware.RequirePermission(auth.PermTopicsApprove, h.Perms)).Post("/{topicID}/reject", h.action(workflow.ActionReject))
		r.With(middleware.RequirePermission(auth.PermTopicsApprove, h.Perms)).Post("/{topicID}/send-back", h.action(workflow.ActionSendBack))
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "topicID", "training topic")
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
	proposed, _ := v.Date("proposedScheduleDate", payload.ProposedScheduleDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	created, err := h.Service.Create(r.Context(), topic.Topic{
		TrainingName:         payload.TrainingName,
		TrainerName:          payload.TrainerName,
		CapabilityArea:       payload.CapabilityArea,
		CapabilitySkill:      payload.CapabilitySkill,
		Type:                 payload.Type,
		ProposedScheduleDate: proposed,
		ContentLink:          payload.ContentLink,
		VideoLink:            payload.VideoLink,
		AssessmentLink:       payload.AssessmentLink,
	}, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.topic.create",
		EntityType: "training_topic",
		EntityID:   created.ID,
		After:      created,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "topicID", "training topic")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload patchRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	patch := topic.Patch{
		TrainingName:    payload.TrainingName,
		TrainerName:     payload.TrainerName,
		CapabilityArea:  payload.CapabilityArea,
		CapabilitySkill: payload.CapabilitySkill,
		Type:            payload.Type,
		ContentLink:     payload.ContentLink,
		VideoLink:       payload.VideoLink,
		AssessmentLink:  payload.AssessmentLink,
	}
	if payload.ProposedScheduleDate != nil {
		v := shared.NewValidator()
		proposed, _ := v.Date("proposedScheduleDate", *payload.ProposedScheduleDate)
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
		patch.ProposedScheduleDate = &proposed
	}
	updated, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.topic.update",
		EntityType: "training_topic",
		EntityID:   id,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id, err := shared.PathID(r, "topicID", "training topic")
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
		Action:     "training.topic.delete",
		EntityType: "training_topic",
		EntityID:   id,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// action serves the workflow endpoints. Reject and send-back need remarks,
// which the transition table enforces.
func (h *Handler) action(action workflow.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := middleware.GetUser(r.Context())
		id, err := shared.PathID(r, "topicID", "training topic")
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		var payload decisionRequest
		if r.ContentLength != 0 && !shared.Decode(w, r, &payload) {
			return
		}
		updated, tr, err := h.Service.Act(r.Context(), id, action, user.UserID, payload.Remarks)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		shared.RecordAudit(r, h.Audit, user.UserID, audit.Entry{
			Action:     "training.topic." + string(action),
			EntityType: "training_topic",
			EntityID:   id,
			Before:     map[string]any{"status": tr.From},
			After:      map[string]any{"status": tr.To, "remarks": payload.Remarks},
		})
		h.announce(r.Context(), action, updated)
		api.Success(w, updated, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) announce(ctx context.Context, action workflow.Action, t topic.Topic) {
	if action == workflow.ActionSubmit {
		if h.Approvers == nil {
			return
		}
		ids, err := h.Approvers.UserIDsWithRole(ctx, auth.RoleManagement)
		if err != nil {
			return
		}
		for _, id := range ids {
			shared.NotifyUser(ctx, h.Notify, &id, notifications.TypeTopicSubmitted,
				"Training topic awaiting approval", t.TrainingName+" was submitted for approval")
		}
		return
	}
	body := t.TrainingName + " is now " + string(t.Status)
	if t.ManagementRemark != "" {
		body += ": " + t.ManagementRemark
	}
	shared.NotifyUser(ctx, h.Notify, t.CreatedBy, notifications.TypeTopicDecided, "Training topic "+string(t.Status), body)
}
