package schedule

import (
	"time"

	"trainhub/internal/domain/attempt"
	"trainhub/internal/domain/workflow"
)

const (
	TypeGeneric       = "Generic"
	TypeDeptSpecific  = "Dept Specific"
	TypeLevelSpecific = "Level Specific"
	TypeRoleSpecific  = "Role Specific"
)

const (
	// DefaultMaxAttempts mirrors the per-training attempt cap. Attempts are
	// counted per training, so a schedule cannot raise or lower it.
	DefaultMaxAttempts         = attempt.MaxAttempts
	DefaultFeedbackWindowHours = 5
)

type Schedule struct {
	ID                 string    `json:"id"`
	TrainingID         *string   `json:"trainingId"`
	TrainingName       string    `json:"trainingName"`
	CapabilityArea     string    `json:"capabilityArea"`
	CapabilitySkill    string    `json:"capabilitySkill"`
	TrainerName        string    `json:"trainerName"`
	Type               string    `json:"type"`
	TrainingDate       time.Time `json:"trainingDate"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Venue              string    `json:"venue"`
	OnlineLink         string    `json:"onlineLink"`
	TargetAudience     Audience  `json:"targetAudience"`
	AttendanceRequired bool      `json:"attendanceRequired"`
	// MaxAttempts is always attempt.MaxAttempts; any other value is rejected.
	MaxAttempts         int               `json:"maxAttempts"`
	FeedbackWindowHours int               `json:"feedbackWindowHours"`
	Status              workflow.State    `json:"status"`
	Remarks             string            `json:"remarks"`
	ReminderSentAt      *time.Time        `json:"reminderSentAt"`
	CreatedBy           *string           `json:"createdBy"`
	AvailableActions    []workflow.Action `json:"availableActions"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

type Input struct {
	TrainingID          string
	TrainingName        string
	CapabilityArea      string
	CapabilitySkill     string
	TrainerName         string
	Type                string
	TrainingDate        time.Time
	StartTime           string
	EndTime             string
	Venue               string
	OnlineLink          string
	TargetAudience      Audience
	AttendanceRequired  *bool
	MaxAttempts         *int
	FeedbackWindowHours *int
}

type Patch struct {
	TrainingName        *string
	CapabilityArea      *string
	CapabilitySkill     *string
	TrainerName         *string
	Type                *string
	TrainingDate        *time.Time
	StartTime           *string
	EndTime             *string
	Venue               *string
	OnlineLink          *string
	TargetAudience      *Audience
	AttendanceRequired  *bool
	MaxAttempts         *int
	FeedbackWindowHours *int
}

type Filter struct {
	Trainer    string
	Status     string
	EmployeeID string
}
