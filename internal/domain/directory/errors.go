package directory

import "trainhub/internal/domain/apperr"

var (
	ErrEmployeeNotFound   = apperr.NotFound("employee")
	ErrDepartmentNotFound = apperr.NotFound("department")
	ErrDuplicateEmployee  = apperr.Validation("employeeCode", "or officialEmail already exists")
	ErrDuplicateDept      = apperr.Validation("name", "department already exists")
)

const (
	MinLevel = 1
	MaxLevel = 4
)
