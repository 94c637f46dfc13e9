package directory

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error)
	AllEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) (Employee, error)
	LinkedUserIDs(ctx context.Context, employeeIDs []string) ([]string, error)

	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	DepartmentByName(ctx context.Context, name string) (Department, error)
	CreateDepartment(ctx context.Context, d Department) (Department, error)
	UpdateDepartment(ctx context.Context, d Department) (Department, error)
}
