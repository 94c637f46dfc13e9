package topic

import (
	"time"

	"trainhub/internal/domain/workflow"
)

type Topic struct {
	ID                   string            `json:"id"`
	TopicCode            string            `json:"topicCode"`
	TrainingName         string            `json:"trainingName"`
	TrainerName          string            `json:"trainerName"`
	CapabilityArea       string            `json:"capabilityArea"`
	CapabilitySkill      string            `json:"capabilitySkill"`
	Type                 string            `json:"type"`
	ProposedScheduleDate time.Time         `json:"proposedScheduleDate"`
	ContentLink          string            `json:"contentLink"`
	VideoLink            string            `json:"videoLink"`
	AssessmentLink       string            `json:"assessmentLink"`
	Status               workflow.State    `json:"status"`
	ManagementRemark     string            `json:"managementRemark"`
	ApprovedBy           *string           `json:"approvedBy"`
	ApprovedAt           *time.Time        `json:"approvedAt"`
	SubmittedAt          *time.Time        `json:"submittedAt"`
	CreatedBy            *string           `json:"createdBy"`
	AvailableActions     []workflow.Action `json:"availableActions"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

type Patch struct {
	TrainingName         *string
	TrainerName          *string
	CapabilityArea       *string
	CapabilitySkill      *string
	Type                 *string
	ProposedScheduleDate *time.Time
	ContentLink          *string
	VideoLink            *string
	AssessmentLink       *string
}
