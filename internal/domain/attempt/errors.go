package attempt

import (
	"errors"

	"trainhub/internal/domain/workflow"
)

// ErrSlotTaken reports that a concurrent writer claimed the attempt number first.
var ErrSlotTaken = errors.New("attempt slot taken")

const actionAttempt workflow.Action = "attempt"

var attemptableStates = []workflow.State{workflow.TrainingProposed, workflow.TrainingApproved, workflow.TrainingScheduled}

// insertRetries bounds how often a lost slot race is retried before giving up.
const insertRetries = 3
