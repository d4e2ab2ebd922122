package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopledesk/internal/domain/auth"
)

var ErrNotFound = errors.New("review not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reviewSelect = `
    SELECT r.id, r.review_date, r.reviewer, r.notes, r.rating,
           r.employee_id, e.first_name || ' ' || e.last_name, jt.title, d.name
    FROM performance_reviews r
    JOIN employees e ON r.employee_id = e.id
    LEFT JOIN job_titles jt ON e.job_title_id = jt.id
    LEFT JOIN departments d ON e.department_id = d.id
`

func (s *Store) Get(ctx context.Context, reviewID int64) (*Review, error) {
	row := s.DB.QueryRow(ctx, reviewSelect+" WHERE r.id = $1", reviewID)
	rev, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

// List applies the caller's scope filter in SQL. Department scoping goes
// through the employee's current department.
func (s *Store) List(ctx context.Context, scope auth.ListScope) ([]Review, error) {
	query := reviewSelect
	var args []any
	switch {
	case scope.All:
	case scope.DepartmentID != 0:
		query += " WHERE e.department_id = $1"
		args = append(args, scope.DepartmentID)
	case scope.EmployeeID != 0:
		query += " WHERE r.employee_id = $1"
		args = append(args, scope.EmployeeID)
	default:
		return []Review{}, nil
	}
	query += " ORDER BY r.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rev)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, employeeID int64, reviewer string, notes *string, rating *int) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, reviewer, notes, rating)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, employeeID, reviewer, notes, rating).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, reviewID int64, notes *string, rating *int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET notes = $1, rating = $2
    WHERE id = $3
  `, notes, rating, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, reviewID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var rev Review
	if err := row.Scan(
		&rev.ID, &rev.ReviewDate, &rev.Reviewer, &rev.Notes, &rev.Rating,
		&rev.EmployeeID, &rev.EmployeeName, &rev.EmployeeJobTitle, &rev.EmployeeDepartment,
	); err != nil {
		return nil, err
	}
	return &rev, nil
}
