package assessment

import "time"

type Assessment struct {
	ID                         string    `json:"id"`
	CapabilityID               string    `json:"capabilityId"`
	CapabilityName             string    `json:"capabilityName"`
	RoleID                     string    `json:"roleId"`
	EmployeeName               string    `json:"employeeName"`
	DepartmentID               string    `json:"departmentId"`
	DepartmentHead             string    `json:"departmentHead"`
	ManagementLevel            *int      `json:"managementLevel,omitempty"`
	RequiredScore              float64   `json:"requiredScore"`
	MaximumScore               float64   `json:"maximumScore"`
	ScoreAchieved              *float64  `json:"scoreAchieved"`
	Gap                        *float64  `json:"gap"`
	Mandatory                  bool      `json:"mandatory"`
	AssessmentLink             string    `json:"assessmentLink"`
	TrainingMandatoryAfterTest bool      `json:"trainingMandatoryAfterTest"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}

type Input struct {
	CapabilityID               string
	RoleID                     string
	DepartmentID               string
	DepartmentHead             string
	ManagementLevel            *int
	RequiredScore              *float64
	MaximumScore               *float64
	ScoreAchieved              *float64
	Mandatory                  bool
	AssessmentLink             string
	TrainingMandatoryAfterTest bool
}

type Patch struct {
	CapabilityID    *string
	RoleID          *string
	DepartmentID    *string
	DepartmentHead  *string
	ManagementLevel *int
	RequiredScore   *float64
	MaximumScore    *float64
	ScoreAchieved   *float64
	// ClearScore resets the assessment to "not yet assessed" so the gap is null again.
	// It cannot be combined with ScoreAchieved.
	ClearScore                 bool
	Mandatory                  *bool
	AssessmentLink             *string
	TrainingMandatoryAfterTest *bool
}

type Filter struct {
	CapabilityID string
	RoleID       string
	Department   string
	GapsOnly     bool
}
