package evaluation

import "trainhub/internal/domain/apperr"

var (
	ErrNotFound          = apperr.NotFound("employee score")
	ErrEmployeeRequired  = apperr.Validation("employeeId", "is required")
	ErrScheduleRequired  = apperr.Validation("trainingScheduleId", "is required")
	ErrScoreRequired     = apperr.Validation("scoreObtained", "is required")
	ErrMaxScoreRequired  = apperr.Validation("maxScore", "must be greater than 0")
	ErrScoreOutOfRange   = apperr.Validation("scoreObtained", "must be between 0 and maxScore")
	ErrCancelledSchedule = apperr.Validation("trainingScheduleId", "schedule is cancelled")
)
