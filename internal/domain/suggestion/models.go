package suggestion

import "time"

const (
	TypeGeneric    = "Generic"
	TypeDepartment = "Department"
	TypeLevel      = "Level"
	TypeMultiDept  = "MultiDept"
)

const (
	MinLevel = 1
	MaxLevel = 4
)

type Suggestion struct {
	ID               string    `json:"id"`
	CapabilityID     string    `json:"capabilityId"`
	CapabilityName   string    `json:"capabilityName"`
	RoleIDs          []string  `json:"roleIds"`
	DepartmentIDs    []string  `json:"departmentIds"`
	TrainingType     string    `json:"trainingType"`
	Level            int       `json:"level"`
	Mandatory        bool      `json:"mandatory"`
	ScoreAchieved    *float64  `json:"scoreAchieved"`
	Gap              *float64  `json:"gap"`
	TopicSuggestions []string  `json:"topicSuggestions"`
	SelectedTopics   []string  `json:"selectedTopics"`
	SuggestedBy      *string   `json:"suggestedBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Input struct {
	CapabilityID     string
	RoleIDs          []string
	DepartmentIDs    []string
	TrainingType     string
	Level            *int
	Mandatory        *bool
	TopicSuggestions []string
	SelectedTopics   []string
	SuggestedBy      string
}

type Patch struct {
	CapabilityID     *string
	RoleIDs          []string
	DepartmentIDs    []string
	TrainingType     *string
	Level            *int
	Mandatory        *bool
	TopicSuggestions []string
	SelectedTopics   []string
}
