package schedule

import (
	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/workflow"
)

var ErrNotFound = apperr.NotFound("training schedule")

const actionEdit workflow.Action = "edit"

var openStates = []workflow.State{workflow.ScheduleScheduled, workflow.ScheduleRescheduled}

var errTrainingMissing = apperr.NotFound("training")
