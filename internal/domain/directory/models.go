package directory

import "time"

type Employee struct {
	ID            string    `json:"id"`
	EmployeeCode  string    `json:"employeeCode"`
	FullName      string    `json:"fullName"`
	OfficialEmail string    `json:"officialEmail"`
	Department    string    `json:"department"`
	Designation   string    `json:"designation"`
	Level         int       `json:"level"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type EmployeeFilter struct {
	Department string
	Level      int
	Limit      int
	Offset     int
}

type EmployeePatch struct {
	EmployeeCode  *string
	FullName      *string
	OfficialEmail *string
	Department    *string
	Designation   *string
	Level         *int
}

type Department struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HeadEmail  string    `json:"headEmail"`
	GroupEmail string    `json:"groupEmail"`
	ParentName string    `json:"parentName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DepartmentPatch struct {
	Name       *string
	HeadEmail  *string
	GroupEmail *string
	ParentName *string
}
