package core

import "time"

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DepartmentView is the wire shape of a department. ManagerName is a
// read-only derived field: the first Manager-role employee found in the
// department, "N/A" when there is none. It is never persisted.
type DepartmentView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerName string `json:"manager_name"`
}

type UserType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type JobTitle struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Employee is the storage shape. The password hash never leaves the
// domain layer; handlers only ever serialize EmployeeView.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	HireDate     time.Time
	PasswordHash string
	DepartmentID int64
	UserTypeID   int64
	JobTitleID   int64
}

// EmployeeView is the wire shape of an employee. The *_name fields are
// derived through joins at read time and are never persisted.
type EmployeeView struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	UserTypeName   *string `json:"user_type_name"`
	JobTitleName   *string `json:"job_title_name"`
	DepartmentName *string `json:"department_name"`
}

func (v EmployeeView) FullName() string {
	return v.FirstName + " " + v.LastName
}
