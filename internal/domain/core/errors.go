package core

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("email already exists")
	ErrPhoneTaken        = errors.New("phone already exists")
	ErrDepartmentTaken   = errors.New("department name already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidUserType   = errors.New("invalid user type")
	ErrInvalidDepartment = errors.New("invalid department id")
	ErrTitleCreate       = errors.New("failed to create job title")
)

// MissingFieldsError reports which required payload fields were absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields"
}
