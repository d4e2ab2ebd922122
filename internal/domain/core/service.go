package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"peopledesk/internal/domain/auth"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// CreateEmployee validates the payload, finds-or-creates the job title,
// then writes the employee. The title upsert is deliberately a separate
// step surfaced before the employee write; the two are not atomic, but
// the employee row is never written when the title step fails.
func (s *Service) CreateEmployee(ctx context.Context, caller auth.Caller, in NewEmployeeInput) (*EmployeeView, error) {
	if missing := MissingEmployeeFields(in, caller.Role == auth.RoleHR); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	email := NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	taken, err := s.Store.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	userType, err := s.Store.UserTypeByName(ctx, strings.TrimSpace(in.UserTypeName))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidUserType
		}
		return nil, err
	}

	if caller.Role == auth.RoleHR {
		exists, err := s.Store.DepartmentExists(ctx, in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrInvalidDepartment
		}
	}

	titleID, err := s.Store.UpsertJobTitle(ctx, strings.TrimSpace(in.JobTitleName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTitleCreate, err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	emp := Employee{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		DepartmentID: in.DepartmentID,
		UserTypeID:   userType.ID,
		JobTitleID:   titleID,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		emp.Phone = &phone
	}

	id, err := s.Store.InsertEmployee(ctx, emp)
	if err != nil {
		return nil, err
	}
	return s.Store.GetEmployeeView(ctx, id)
}
