package evaluation

import (
	"time"

	"trainhub/internal/domain/directory"
)

const (
	StatusPass = "Pass"
	StatusFail = "Fail"
)

// Score is one evaluated result of an employee in a scheduled training.
type Score struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	ScheduleID     string    `json:"trainingScheduleId"`
	TrainingName   string    `json:"trainingName"`
	TrainingDate   time.Time `json:"trainingDate"`
	CapabilityID   *string   `json:"capabilityId"`
	CapabilityName string    `json:"capabilityName"`
	ScoreObtained  float64   `json:"scoreObtained"`
	MaxScore       float64   `json:"maxScore"`
	Percentage     int       `json:"percentage"`
	Status         string    `json:"status"`
	EvaluatedBy    *string   `json:"evaluatedBy"`
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

type Input struct {
	EmployeeID    string
	ScheduleID    string
	CapabilityID  *string
	ScoreObtained *float64
	MaxScore      *float64
}

type ScheduleSummary struct {
	ScheduleID   string    `json:"trainingScheduleId"`
	TrainingName string    `json:"trainingName"`
	TrainingDate time.Time `json:"trainingDate"`
	Scores       []Score   `json:"scorePerTraining"`
	AverageScore int       `json:"averageScore"`
}

// Summary groups an employee's scores per schedule. CompletionCount counts
// evaluations, not distinct schedules.
type Summary struct {
	Employee        directory.Employee `json:"employee"`
	Trainings       []ScheduleSummary  `json:"rows"`
	AverageScore    int                `json:"averageScore"`
	CompletionCount int                `json:"completionCount"`
}
