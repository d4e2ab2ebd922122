package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"peopledesk/internal/domain/auth"
)

const departmentViewSelect = `
    SELECT d.id, d.name, COALESCE(d.description, ''),
           COALESCE((
             SELECT e.first_name || ' ' || e.last_name
             FROM employees e
             JOIN user_types ut ON e.user_type_id = ut.id
             WHERE e.department_id = d.id AND ut.name = $1
             ORDER BY e.id
             LIMIT 1
           ), 'N/A')
    FROM departments d
`

func (s *Store) ListDepartmentViews(ctx context.Context) ([]DepartmentView, error) {
	rows, err := s.DB.Query(ctx, departmentViewSelect+" ORDER BY d.id", string(auth.RoleManager))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DepartmentView{}
	for rows.Next() {
		var view DepartmentView
		if err := rows.Scan(&view.ID, &view.Name, &view.Description, &view.ManagerName); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartmentView(ctx context.Context, departmentID int64) (*DepartmentView, error) {
	var view DepartmentView
	err := s.DB.QueryRow(ctx, departmentViewSelect+" WHERE d.id = $2", string(auth.RoleManager), departmentID).
		Scan(&view.ID, &view.Name, &view.Description, &view.ManagerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (s *Store) CreateDepartment(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description)
    VALUES ($1, NULLIF($2, ''))
    RETURNING id
  `, name, description).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDepartmentTaken
		}
		return 0, err
	}
	return id, nil
}

// DeleteDepartment removes the department; employees and their dependents
// go with it through the FK cascade.
func (s *Store) DeleteDepartment(ctx context.Context, departmentID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments WHERE id = $1", departmentID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListUserTypes(ctx context.Context) ([]UserType, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, COALESCE(description, '') FROM user_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserType{}
	for rows.Next() {
		var ut UserType
		if err := rows.Scan(&ut.ID, &ut.Name, &ut.Description); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	return out, rows.Err()
}

func (s *Store) GetUserType(ctx context.Context, id int64) (*UserType, error) {
	var ut UserType
	err := s.DB.QueryRow(ctx, "SELECT id, name, COALESCE(description, '') FROM user_types WHERE id = $1", id).
		Scan(&ut.ID, &ut.Name, &ut.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ut, nil
}

func (s *Store) UserTypeByName(ctx context.Context, name string) (*UserType, error) {
	var ut UserType
	err := s.DB.QueryRow(ctx, "SELECT id, name, COALESCE(description, '') FROM user_types WHERE name = $1", name).
		Scan(&ut.ID, &ut.Name, &ut.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ut, nil
}

func (s *Store) ListJobTitles(ctx context.Context) ([]JobTitle, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, title FROM job_titles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobTitle{}
	for rows.Next() {
		var jt JobTitle
		if err := rows.Scan(&jt.ID, &jt.Title); err != nil {
			return nil, err
		}
		out = append(out, jt)
	}
	return out, rows.Err()
}

func (s *Store) GetJobTitle(ctx context.Context, id int64) (*JobTitle, error) {
	var jt JobTitle
	err := s.DB.QueryRow(ctx, "SELECT id, title FROM job_titles WHERE id = $1", id).Scan(&jt.ID, &jt.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &jt, nil
}

// UpsertJobTitle finds a title by name or creates it. Concurrent creates
// of the same name race to one row; the loser re-reads the winner's.
func (s *Store) UpsertJobTitle(ctx context.Context, title string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, "SELECT id FROM job_titles WHERE title = $1", title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = s.DB.QueryRow(ctx, `
    INSERT INTO job_titles (title)
    VALUES ($1)
    ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
    RETURNING id
  `, title).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
