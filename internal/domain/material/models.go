package material

import "time"

type Material struct {
	ID           string    `json:"id"`
	ScheduleID   string    `json:"trainingScheduleId"`
	TrainingName string    `json:"trainingName"`
	ContentFile  string    `json:"contentFile"`
	VideoURL     string    `json:"videoUrl"`
	AssessmentID *string   `json:"assessmentId"`
	UploadedBy   *string   `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Patch leaves nil fields untouched. An empty AssessmentID unlinks the assessment.
type Patch struct {
	ContentFile  *string
	VideoURL     *string
	AssessmentID *string
}

type Filter struct {
	ScheduleID string
}
