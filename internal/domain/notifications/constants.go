package notifications

const (
	TypeTopicSubmitted     = "topic_submitted"
	TypeTopicDecided       = "topic_decided"
	TypeTrainingApproved   = "training_approved"
	TypeTrainingRejected   = "training_rejected"
	TypeTrainingScheduled  = "training_scheduled"
	TypeScheduleChanged    = "schedule_changed"
	TypeTrainingReminder   = "training_reminder"
	TypeFeedbackOpen       = "feedback_open"
	TypeAttemptRecorded    = "attempt_recorded"
	TypeAssessmentRecorded = "assessment_recorded"
)

// Types lists every notice kind, for filtering the inbox.
var Types = []string{
	TypeTopicSubmitted, TypeTopicDecided, TypeTrainingApproved, TypeTrainingRejected,
	TypeTrainingScheduled, TypeScheduleChanged, TypeTrainingReminder, TypeFeedbackOpen,
	TypeAttemptRecorded, TypeAssessmentRecorded,
}
