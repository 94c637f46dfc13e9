package topic

import (
	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/workflow"
)

var ErrNotFound = apperr.NotFound("training topic")

const (
	actionEdit   workflow.Action = "edit"
	actionDelete workflow.Action = "delete"
)

// Topics stay editable until they are in front of management.
var (
	editableStates  = []workflow.State{workflow.TopicDraft, workflow.TopicSentBack}
	deletableStates = []workflow.State{workflow.TopicDraft}
)
