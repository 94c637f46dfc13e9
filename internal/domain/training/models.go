package training

import (
	"time"

	"trainhub/internal/domain/scoring"
	"trainhub/internal/domain/workflow"
)

const (
	TypeGeneric       = "Generic"
	TypeDeptSpecific  = "Dept Specific"
	TypeLevelSpecific = "Level Specific"
	TypeMultiDept     = "Multi Dept"
)

const (
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

const (
	TrainerInternal = "Internal Trainer"
	TrainerExternal = "External Consultant"
)

const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

type Phase1 struct {
	Departments      []string `json:"departments"`
	Designation      string   `json:"designation"`
	Category         string   `json:"category"`
	TrainingType     string   `json:"trainingType"`
	Level            *int     `json:"level"`
	Capabilities     []string `json:"capabilities"`
	TopicSuggestions []string `json:"topicSuggestions"`
	SelectedTopic    string   `json:"selectedTopic"`
}

type InternalTrainer struct {
	EmployeeID  string `json:"employeeId"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

type ExternalTrainer struct {
	Source       string `json:"source"`
	TrainerName  string `json:"trainerName"`
	Organisation string `json:"organisation"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
}

type Phase2 struct {
	TrainingTopic       string                `json:"trainingTopic"`
	Type                string                `json:"type"`
	CapabilitiesCovered []string              `json:"capabilitiesCovered"`
	Description         string                `json:"description"`
	Priority            string                `json:"priority"`
	TrainerType         string                `json:"trainerType"`
	InternalTrainer     *InternalTrainer      `json:"internalTrainer,omitempty"`
	ExternalTrainer     *ExternalTrainer      `json:"externalTrainer,omitempty"`
	Status              string                `json:"status"`
	ContentPDFLink      string                `json:"contentPdfLink"`
	VideoLink           string                `json:"videoLink"`
	AssessmentLink      string                `json:"assessmentLink"`
	RequiredScore       *float64              `json:"requiredScore,omitempty"`
	RequiredScoreMatrix []scoring.MatrixEntry `json:"requiredScoreMatrix,omitempty"`
}

type Approval struct {
	Status     string     `json:"status"`
	Remarks    string     `json:"remarks"`
	ApprovedBy *string    `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

type Training struct {
	ID               string            `json:"id"`
	TrainingCode     string            `json:"trainingCode"`
	Phase1           Phase1            `json:"phase1"`
	Phase2           *Phase2           `json:"phase2"`
	ScheduledDate    *time.Time        `json:"scheduledDate"`
	Quarter          string            `json:"quarter"`
	FinancialYear    string            `json:"financialYear"`
	Approval         Approval          `json:"approval"`
	WorkflowStatus   workflow.State    `json:"workflowStatus"`
	ArchivedAt       *time.Time        `json:"archivedAt,omitempty"`
	CreatedBy        *string           `json:"createdBy"`
	AvailableActions []workflow.Action `json:"availableActions"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ScoringConfig exposes the phase-2 thresholds for required-score resolution.
func (t Training) ScoringConfig() scoring.Config {
	if t.Phase2 == nil {
		return scoring.Config{}
	}
	return scoring.Config{RequiredScore: t.Phase2.RequiredScore, Matrix: t.Phase2.RequiredScoreMatrix}
}

// Phase1Patch carries the descriptive fields editable after creation.
type Phase1Patch struct {
	Departments      []string
	Designation      *string
	Category         *string
	TrainingType     *string
	Level            *int
	Capabilities     []string
	TopicSuggestions []string
	SelectedTopic    *string
	ScheduledDate    *time.Time
}

type FeedbackEntry struct {
	ID          string    `json:"id"`
	TrainingID  string    `json:"trainingId"`
	Participant string    `json:"participant"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TransitionFields are the columns a transition may stamp alongside the status.
type TransitionFields struct {
	ScheduledDate *time.Time
	Quarter       string
	FinancialYear string
}
