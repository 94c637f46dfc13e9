package auth

import "context"

const (
	PermDirectoryRead     = "directory.read"
	PermDirectoryWrite    = "directory.write"
	PermCapabilitiesRead  = "capabilities.read"
	PermCapabilitiesWrite = "capabilities.write"
	PermAssessmentsRead   = "assessments.read"
	PermAssessmentsWrite  = "assessments.write"
	PermSuggestionsRead   = "suggestions.read"
	PermSuggestionsWrite  = "suggestions.write"
	PermTopicsRead        = "topics.read"
	PermTopicsWrite       = "topics.write"
	PermTopicsApprove     = "topics.approve"
	PermTrainingsRead     = "trainings.read"
	PermTrainingsWrite    = "trainings.write"
	PermTrainingsApprove  = "trainings.approve"
	PermSchedulesRead     = "schedules.read"
	PermSchedulesWrite    = "schedules.write"
	PermAttemptsWrite     = "attempts.write"
	PermFeedbackRead      = "feedback.read"
	PermFeedbackWrite     = "feedback.write"
	PermScoresWrite       = "scores.write"
	PermMaterialsRead     = "materials.read"
	PermMaterialsWrite    = "materials.write"
	PermEvaluationsRead   = "evaluations.read"
	PermEvaluationsWrite  = "evaluations.write"
	PermAuditRead         = "audit.read"
	PermReportsRead       = "reports.read"
	PermJobsRun           = "jobs.run"
	PermUsersManage       = "users.manage"
	PermSystemAdmin       = "admin.system"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermDirectoryWrite,
	PermCapabilitiesRead,
	PermCapabilitiesWrite,
	PermAssessmentsRead,
	PermAssessmentsWrite,
	PermSuggestionsRead,
	PermSuggestionsWrite,
	PermTopicsRead,
	PermTopicsWrite,
	PermTopicsApprove,
	PermTrainingsRead,
	PermTrainingsWrite,
	PermTrainingsApprove,
	PermSchedulesRead,
	PermSchedulesWrite,
	PermAttemptsWrite,
	PermFeedbackRead,
	PermFeedbackWrite,
	PermScoresWrite,
	PermMaterialsRead,
	PermMaterialsWrite,
	PermEvaluationsRead,
	PermEvaluationsWrite,
	PermAuditRead,
	PermReportsRead,
	PermJobsRun,
	PermUsersManage,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermCapabilitiesRead,
		PermTrainingsRead,
		PermSchedulesRead,
		PermAttemptsWrite,
		PermFeedbackWrite,
		PermMaterialsRead,
	},
	RoleTrainer: {
		PermCapabilitiesRead,
		PermTopicsRead,
		PermTopicsWrite,
		PermTrainingsRead,
		PermSchedulesRead,
		PermFeedbackRead,
		PermAttemptsWrite,
		PermFeedbackWrite,
		PermMaterialsRead,
		PermMaterialsWrite,
		PermEvaluationsWrite,
	},
	RoleHeadOfDepartment: {
		PermDirectoryRead,
		PermCapabilitiesRead,
		PermAssessmentsRead,
		PermAssessmentsWrite,
		PermSuggestionsRead,
		PermSuggestionsWrite,
		PermTopicsRead,
		PermTrainingsRead,
		PermTrainingsWrite,
		PermSchedulesRead,
		PermFeedbackRead,
		PermAttemptsWrite,
		PermFeedbackWrite,
		PermReportsRead,
		PermMaterialsRead,
		PermEvaluationsWrite,
	},
	RoleManagement: {
		PermDirectoryRead,
		PermCapabilitiesRead,
		PermAssessmentsRead,
		PermSuggestionsRead,
		PermTopicsRead,
		PermTopicsApprove,
		PermTrainingsRead,
		PermTrainingsApprove,
		PermSchedulesRead,
		PermFeedbackRead,
		PermReportsRead,
		PermMaterialsRead,
		PermEvaluationsRead,
	},
	RoleHR: {
		PermDirectoryRead,
		PermDirectoryWrite,
		PermCapabilitiesRead,
		PermCapabilitiesWrite,
		PermAssessmentsRead,
		PermAssessmentsWrite,
		PermSuggestionsRead,
		PermSuggestionsWrite,
		PermTopicsRead,
		PermTopicsWrite,
		PermTrainingsRead,
		PermTrainingsWrite,
		PermSchedulesRead,
		PermSchedulesWrite,
		PermAttemptsWrite,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermScoresWrite,
		PermReportsRead,
		PermJobsRun,
		PermMaterialsRead,
		PermEvaluationsWrite,
	},
	RoleAdmin: DefaultPermissions,
}

// StaticPermissions resolves permissions from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
