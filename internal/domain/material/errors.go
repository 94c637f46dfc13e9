package material

import "trainhub/internal/domain/apperr"

var (
	ErrNotFound          = apperr.NotFound("training material")
	ErrScheduleRequired  = apperr.Validation("trainingScheduleId", "is required")
	ErrContentRequired   = apperr.Validation("contentFile", "contentFile or videoUrl is required")
	ErrCancelledSchedule = apperr.Validation("trainingScheduleId", "schedule is cancelled")
)
