package assessmenthandler

import (
	"net/http"

	"trainhub/internal/domain/assessment"
	"trainhub/internal/domain/auth"
	"trainhub/internal/transport/http/api"
	"trainhub/internal/transport/http/middleware"
	"trainhub/internal/transport/http/shared"
)

// roleMapRow is the read-only capability role map: one line per assessment
// showing what the role needs, what was achieved and whether training follows.
type roleMapRow struct {
	AssessmentID     string   `json:"assessmentId"`
	Capability       string   `json:"capability"`
	CapabilityID     string   `json:"capabilityId"`
	RoleID           string   `json:"roleId"`
	RoleName         string   `json:"roleName"`
	Department       string   `json:"department"`
	DeptHead         string   `json:"deptHead"`
	ManagementLevel  *int     `json:"managementLevel"`
	RequiredScore    float64  `json:"requiredScore"`
	MaximumScore     float64  `json:"maximumScore"`
	AchievedScore    *float64 `json:"achievedScore"`
	Gap              *float64 `json:"gap"`
	Mandatory        bool     `json:"mandatory"`
	TrainingRequired string   `json:"trainingRequired"`
}

func roleMapRows(items []assessment.Assessment) []roleMapRow {
	out := make([]roleMapRow, 0, len(items))
	for _, a := range items {
		required := "No"
		if a.Mandatory {
			required = "Yes"
		}
		out = append(out, roleMapRow{
			AssessmentID:     a.ID,
			Capability:       a.CapabilityName,
			CapabilityID:     a.CapabilityID,
			RoleID:           a.RoleID,
			RoleName:         a.EmployeeName,
			Department:       a.DepartmentID,
			DeptHead:         a.DepartmentHead,
			ManagementLevel:  a.ManagementLevel,
			RequiredScore:    a.RequiredScore,
			MaximumScore:     a.MaximumScore,
			AchievedScore:    a.ScoreAchieved,
			Gap:              a.Gap,
			Mandatory:        a.Mandatory,
			TrainingRequired: required,
		})
	}
	return out
}

// handleRoleMap is open to every role with catalog read access. Employees only
// see their own rows.
func (h *Handler) handleRoleMap(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	filter := filterFrom(r)
	if user.RoleName == auth.RoleEmployee {
		if user.EmployeeID == "" {
			api.Success(w, []roleMapRow{}, middleware.GetRequestID(r.Context()))
			return
		}
		filter.RoleID = user.EmployeeID
	}
	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, roleMapRows(items), middleware.GetRequestID(r.Context()))
}
