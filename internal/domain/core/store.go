package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopledesk/internal/domain/auth"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeViewSelect = `
    SELECT e.id, e.first_name, e.last_name, e.email, e.phone,
           ut.name, jt.title, d.name
    FROM employees e
    LEFT JOIN user_types ut ON e.user_type_id = ut.id
    LEFT JOIN job_titles jt ON e.job_title_id = jt.id
    LEFT JOIN departments d ON e.department_id = d.id
`

// Caller resolves an authenticated employee id to the identity the policy
// reasons about. Role and department are read fresh on every call.
func (s *Store) Caller(ctx context.Context, employeeID int64) (auth.Caller, error) {
	var (
		caller   auth.Caller
		roleName string
	)
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, COALESCE(ut.name, ''), COALESCE(e.department_id, 0)
    FROM employees e
    LEFT JOIN user_types ut ON e.user_type_id = ut.id
    WHERE e.id = $1
  `, employeeID).Scan(&caller.EmployeeID, &roleName, &caller.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Caller{}, ErrNotFound
		}
		return auth.Caller{}, err
	}
	caller.Role = auth.ParseRole(roleName)
	return caller, nil
}

// Credentials returns the id and password hash for a normalized email.
func (s *Store) Credentials(ctx context.Context, email string) (int64, string, error) {
	var (
		id   int64
		hash string
	)
	err := s.DB.QueryRow(ctx, "SELECT id, password_hash FROM employees WHERE email = $1", email).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (s *Store) GetEmployeeView(ctx context.Context, employeeID int64) (*EmployeeView, error) {
	row := s.DB.QueryRow(ctx, employeeViewSelect+" WHERE e.id = $1", employeeID)
	view, err := scanEmployeeView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return view, nil
}

// ListEmployeeViews applies the caller's scope filter in SQL so a scoped
// caller never receives rows outside their slice.
func (s *Store) ListEmployeeViews(ctx context.Context, scope auth.ListScope) ([]EmployeeView, error) {
	query := employeeViewSelect
	var args []any
	switch {
	case scope.All:
	case scope.DepartmentID != 0:
		query += " WHERE e.department_id = $1"
		args = append(args, scope.DepartmentID)
	case scope.EmployeeID != 0:
		query += " WHERE e.id = $1"
		args = append(args, scope.EmployeeID)
	default:
		return []EmployeeView{}, nil
	}
	query += " ORDER BY e.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EmployeeView{}
	for rows.Next() {
		view, err := scanEmployeeView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, rows.Err()
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total)
	return total, err
}

// EmployeeDepartment returns the employee's current department id, 0 when
// unassigned.
func (s *Store) EmployeeDepartment(ctx context.Context, employeeID int64) (int64, error) {
	var departmentID int64
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(department_id, 0) FROM employees WHERE id = $1", employeeID).Scan(&departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return departmentID, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE email = $1", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertEmployee writes one employee row inside a transaction and maps
// unique violations back to typed conflicts.
func (s *Store) InsertEmployee(ctx context.Context, emp Employee) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, phone, password_hash, department_id, user_type_id, job_title_id)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), NULLIF($7, 0), NULLIF($8, 0))
    RETURNING id
  `, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.PasswordHash, emp.DepartmentID, emp.UserTypeID, emp.JobTitleID).Scan(&id)
	if err != nil {
		return 0, mapEmployeeConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapEmployeeConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "phone") {
			return ErrPhoneTaken
		}
		return ErrEmailTaken
	}
	return err
}

func scanEmployeeView(row pgx.Row) (*EmployeeView, error) {
	var view EmployeeView
	if err := row.Scan(
		&view.ID, &view.FirstName, &view.LastName, &view.Email, &view.Phone,
		&view.UserTypeName, &view.JobTitleName, &view.DepartmentName,
	); err != nil {
		return nil, err
	}
	return &view, nil
}
