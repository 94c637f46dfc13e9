package attempt

import "time"

// MaxAttempts is the number of scored attempts an employee gets per training.
const MaxAttempts = 2

type Attempt struct {
	ID            string    `json:"id"`
	TrainingID    string    `json:"trainingId"`
	EmployeeID    string    `json:"employeeId"`
	AttemptNo     int       `json:"attemptNo"`
	ScoreAchieved float64   `json:"scoreAchieved"`
	RequiredScore float64   `json:"requiredScore"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Result struct {
	Attempt           Attempt `json:"attempt"`
	FinalStatus       string  `json:"finalStatus"`
	AttemptsRemaining int     `json:"attemptsRemaining"`
}

// History summarises one employee's attempts on a training.
type History struct {
	Attempts          []Attempt `json:"attempts"`
	FinalStatus       string    `json:"finalStatus,omitempty"`
	AttemptsRemaining int       `json:"attemptsRemaining"`
}
