package feedback

import "time"

type Feedback struct {
	ID           string    `json:"id"`
	ScheduleID   string    `json:"scheduleId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

type Eligibility struct {
	CanSubmit        bool       `json:"canSubmit"`
	Reason           string     `json:"reason,omitempty"`
	Deadline         *time.Time `json:"deadline"`
	AlreadySubmitted bool       `json:"alreadySubmitted"`
}

type Summary struct {
	Items         []Feedback `json:"items"`
	Count         int        `json:"count"`
	AverageRating *float64   `json:"averageRating"`
}
