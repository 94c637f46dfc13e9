package assessment

import "trainhub/internal/domain/apperr"

var (
	ErrNotFound        = apperr.NotFound("capability assessment")
	ErrInvalidEmployee = apperr.Validation("roleId", "must reference an existing employee")
)

const (
	MinManagementLevel = 1
	MaxManagementLevel = 4
)
