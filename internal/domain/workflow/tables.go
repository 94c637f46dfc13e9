package workflow

// Topic states.
const (
	TopicDraft           State = "Draft"
	TopicPendingApproval State = "Pending Approval"
	TopicApproved        State = "Approved"
	TopicRejected        State = "Rejected"
	TopicSentBack        State = "Sent Back"
)

// Training workflow states.
const (
	TrainingProposed  State = "Proposed"
	TrainingApproved  State = "Approved"
	TrainingRejected  State = "Rejected"
	TrainingScheduled State = "Scheduled"
	TrainingArchived  State = "Archived"
)

// Schedule states.
const (
	ScheduleScheduled   State = "Scheduled"
	ScheduleRescheduled State = "Rescheduled"
	ScheduleCancelled   State = "Cancelled"
	ScheduleCompleted   State = "Completed"
)

const (
	ActionSubmit     Action = "submit"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionSendBack   Action = "sendBack"
	ActionSchedule   Action = "schedule"
	ActionArchive    Action = "archive"
	ActionReschedule Action = "reschedule"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
)

// TopicTable governs training topics. A topic that was sent back can be
// resubmitted once the requested changes are made.
func TopicTable() *Table {
	return NewTable("training topic",
		Rule{From: TopicDraft, Action: ActionSubmit, To: TopicPendingApproval},
		Rule{From: TopicSentBack, Action: ActionSubmit, To: TopicPendingApproval},
		Rule{From: TopicPendingApproval, Action: ActionApprove, To: TopicApproved},
		Rule{From: TopicPendingApproval, Action: ActionReject, To: TopicRejected, Requires: []Field{FieldRemarks}},
		Rule{From: TopicPendingApproval, Action: ActionSendBack, To: TopicSentBack, Requires: []Field{FieldRemarks}},
	)
}

// TrainingTable governs the coarse training lifecycle. Archived is terminal and
// archiving it again is accepted without change.
func TrainingTable() *Table {
	return NewTable("training",
		Rule{From: TrainingProposed, Action: ActionApprove, To: TrainingApproved},
		Rule{From: TrainingProposed, Action: ActionReject, To: TrainingRejected, Requires: []Field{FieldRemarks}},
		Rule{From: TrainingApproved, Action: ActionSchedule, To: TrainingScheduled, Requires: []Field{FieldScheduledDate}},
		Rule{From: TrainingProposed, Action: ActionArchive, To: TrainingArchived},
		Rule{From: TrainingApproved, Action: ActionArchive, To: TrainingArchived},
		Rule{From: TrainingScheduled, Action: ActionArchive, To: TrainingArchived},
		Rule{From: TrainingRejected, Action: ActionArchive, To: TrainingArchived},
		Rule{From: TrainingArchived, Action: ActionArchive, To: TrainingArchived, Noop: true},
	)
}

// ScheduleTable governs final training schedules.
func ScheduleTable() *Table {
	return NewTable("training schedule",
		Rule{From: ScheduleScheduled, Action: ActionReschedule, To: ScheduleRescheduled, Requires: []Field{FieldTrainingDate}},
		Rule{From: ScheduleRescheduled, Action: ActionReschedule, To: ScheduleRescheduled, Requires: []Field{FieldTrainingDate}},
		Rule{From: ScheduleScheduled, Action: ActionComplete, To: ScheduleCompleted},
		Rule{From: ScheduleRescheduled, Action: ActionComplete, To: ScheduleCompleted},
		Rule{From: ScheduleScheduled, Action: ActionCancel, To: ScheduleCancelled},
		Rule{From: ScheduleRescheduled, Action: ActionCancel, To: ScheduleCancelled},
	)
}

// ScheduleActionFor maps a requested target status onto the schedule action reaching it.
func ScheduleActionFor(target State) (Action, bool) {
	switch target {
	case ScheduleRescheduled:
		return ActionReschedule, true
	case ScheduleCompleted:
		return ActionComplete, true
	case ScheduleCancelled:
		return ActionCancel, true
	}
	return "", false
}
