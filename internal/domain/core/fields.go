package core

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*@[A-Za-z0-9]+\.[a-z]{2,}$`)

// NormalizeEmail lowercases and trims an address; all storage and lookup
// goes through the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NewEmployeeInput carries the creation payload after transport decoding.
// DepartmentID is the value resolved by policy, not the raw request.
type NewEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	UserTypeName string
	JobTitleName string
	DepartmentID int64
}

// MissingEmployeeFields reports absent required fields in payload order.
// HR callers must also supply a department.
func MissingEmployeeFields(in NewEmployeeInput, requireDepartment bool) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("first_name", in.FirstName)
	check("last_name", in.LastName)
	check("email", in.Email)
	check("password", in.Password)
	check("user_type_name", in.UserTypeName)
	check("job_title_name", in.JobTitleName)
	if requireDepartment && in.DepartmentID == 0 {
		missing = append(missing, "department_id")
	}
	return missing
}
