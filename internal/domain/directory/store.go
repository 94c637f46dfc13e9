package directory

import (
	"context"
	"fmt"

	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = "id, employee_code, full_name, official_email, department, designation, level, created_at, updated_at"

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeCode, &e.FullName, &e.OfficialEmail, &e.Department, &e.Designation, &e.Level, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		where += fmt.Sprintf(" AND lower(department) = lower($%d)", len(args))
	}
	if filter.Level > 0 {
		args = append(args, filter.Level)
		where += fmt.Sprintf(" AND level = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + " FROM employees" + where + " ORDER BY full_name"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (s *Store) AllEmployees(ctx context.Context) ([]Employee, error) {
	out, _, err := s.ListEmployees(ctx, EmployeeFilter{})
	return out, err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	out, err := scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_code, full_name, official_email, department, designation, level)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+employeeColumns,
		e.EmployeeCode, e.FullName, e.OfficialEmail, e.Department, e.Designation, e.Level))
	if querier.IsUniqueViolation(err) {
		return Employee{}, ErrDuplicateEmployee
	}
	return out, err
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	out, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET employee_code = $2, full_name = $3, official_email = $4, department = $5, designation = $6, level = $7, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns,
		e.ID, e.EmployeeCode, e.FullName, e.OfficialEmail, e.Department, e.Designation, e.Level))
	if querier.IsMissing(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	if querier.IsUniqueViolation(err) {
		return Employee{}, ErrDuplicateEmployee
	}
	return out, err
}

func (s *Store) LinkedUserIDs(ctx context.Context, employeeIDs []string) ([]string, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id::text FROM users
    WHERE employee_id::text = ANY($1) AND status = 'active'
  `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

const departmentColumns = "id, name, head_email, group_email, parent_name, created_at, updated_at"

func scanDepartment(row interface{ Scan(...any) error }) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.HeadEmail, &d.GroupEmail, &d.ParentName, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+departmentColumns+" FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id string) (Department, error) {
	d, err := scanDepartment(s.DB.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Department{}, ErrDepartmentNotFound
	}
	return d, err
}

func (s *Store) DepartmentByName(ctx context.Context, name string) (Department, error) {
	d, err := scanDepartment(s.DB.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE lower(name) = lower($1)", name))
	if querier.IsMissing(err) {
		return Department{}, ErrDepartmentNotFound
	}
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	out, err := scanDepartment(s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, head_email, group_email, parent_name)
    VALUES ($1,$2,$3,$4)
    RETURNING `+departmentColumns,
		d.Name, d.HeadEmail, d.GroupEmail, d.ParentName))
	if querier.IsUniqueViolation(err) {
		return Department{}, ErrDuplicateDept
	}
	return out, err
}

func (s *Store) UpdateDepartment(ctx context.Context, d Department) (Department, error) {
	out, err := scanDepartment(s.DB.QueryRow(ctx, `
    UPDATE departments
    SET name = $2, head_email = $3, group_email = $4, parent_name = $5, updated_at = now()
    WHERE id = $1
    RETURNING `+departmentColumns,
		d.ID, d.Name, d.HeadEmail, d.GroupEmail, d.ParentName))
	if querier.IsMissing(err) {
		return Department{}, ErrDepartmentNotFound
	}
	if querier.IsUniqueViolation(err) {
		return Department{}, ErrDuplicateDept
	}
	return out, err
}
