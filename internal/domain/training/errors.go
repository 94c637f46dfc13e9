package training

import (
	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/workflow"
)

var ErrNotFound = apperr.NotFound("training")

const (
	actionUpdatePhase2 workflow.Action = "update phase 2 of"
	actionEdit         workflow.Action = "edit"
)

// Phase 2 details are frozen once a training is rejected or archived.
var phase2States = []workflow.State{workflow.TrainingProposed, workflow.TrainingApproved, workflow.TrainingScheduled}

var editableStates = []workflow.State{workflow.TrainingProposed, workflow.TrainingApproved, workflow.TrainingScheduled, workflow.TrainingRejected}
