package shared

import (
	"errors"
	"net/http"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/requestctx"
	"trainhub/internal/transport/http/api"
)

// WriteError translates a service error into the response envelope.
// Anything outside the known taxonomy is logged and reported as a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var verr *apperr.ValidationError
	var terr *workflow.TransitionError
	switch {
	case errors.As(err, &verr):
		FailValidation(w, requestID, []ValidationIssue{{Field: verr.Field, Reason: verr.Reason}})
	case errors.Is(err, apperr.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.As(err, &terr):
		allowed := make([]string, len(terr.Allowed))
		for i, state := range terr.Allowed {
			allowed[i] = string(state)
		}
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_transition", terr.Error(), map[string]any{
			"entity":  terr.Entity,
			"current": string(terr.Current),
			"action":  string(terr.Action),
			"allowed": allowed,
		}, requestID)
	case errors.Is(err, apperr.ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, apperr.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, apperr.ErrAttemptLimitExceeded):
		api.Fail(w, http.StatusBadRequest, "attempt_limit_exceeded", err.Error(), requestID)
	case errors.Is(err, apperr.ErrDuplicateFeedback):
		api.Fail(w, http.StatusBadRequest, "duplicate_feedback", err.Error(), requestID)
	case errors.Is(err, apperr.ErrFeedbackWindowClosed):
		api.Fail(w, http.StatusForbidden, "feedback_window_closed", err.Error(), requestID)
	case errors.Is(err, apperr.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
	case errors.Is(err, auth.ErrInvalidMFACode):
		api.Fail(w, http.StatusUnauthorized, "invalid_mfa_code", "invalid mfa code", requestID)
	case errors.Is(err, auth.ErrMFAUnavailable), errors.Is(err, auth.ErrMFANotSetUp):
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", err.Error(), requestID)
	default:
		requestctx.Logger(r.Context()).Error("request failed", "err", err, "path", r.URL.Path)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
