package shared

import (
	"fmt"
	"strings"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/domain/auth"
)

// ActingEmployee resolves the employee a request acts for. Employees always act
// for their own record; other roles must name one.
func ActingEmployee(user auth.UserContext, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if user.RoleName != auth.RoleEmployee {
		return requested, nil
	}
	if user.EmployeeID == "" {
		return "", fmt.Errorf("account is not linked to an employee: %w", apperr.ErrForbidden)
	}
	if requested != "" && requested != user.EmployeeID {
		return "", fmt.Errorf("employees may only act for themselves: %w", apperr.ErrForbidden)
	}
	return user.EmployeeID, nil
}
