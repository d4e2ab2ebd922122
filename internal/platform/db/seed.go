package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/platform/config"
)

// Seed makes a fresh database usable: the three fixed user types, a
// Human Resources department and one HR admin account to log in with.
// Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	typeIDs, err := ensureUserTypes(ctx, pool)
	if err != nil {
		return err
	}

	deptID, err := ensureDepartment(ctx, pool, "Human Resources", "Manages people")
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		slog.Warn("seed admin skipped: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	return ensureAdminEmployee(ctx, pool, email, cfg.SeedAdminPassword, deptID, typeIDs[auth.RoleHR])
}

func ensureUserTypes(ctx context.Context, pool *pgxpool.Pool) (map[auth.Role]int64, error) {
	typeIDs := map[auth.Role]int64{}
	for role, description := range auth.RoleDescriptions {
		var id int64
		err := pool.QueryRow(ctx, "SELECT id FROM user_types WHERE name = $1", string(role)).Scan(&id)
		if err == nil {
			typeIDs[role] = id
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		err = pool.QueryRow(ctx, "INSERT INTO user_types (name, description) VALUES ($1, $2) RETURNING id", string(role), description).Scan(&id)
		if err != nil {
			return nil, err
		}
		typeIDs[role] = id
	}
	return typeIDs, nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name, description string) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = pool.QueryRow(ctx, "INSERT INTO departments (name, description) VALUES ($1, $2) RETURNING id", name, description).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func ensureAdminEmployee(ctx context.Context, pool *pgxpool.Pool, email, password string, deptID, userTypeID int64) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	var titleID int64
	if err := pool.QueryRow(ctx, `
    INSERT INTO job_titles (title)
    VALUES ('HR Officer')
    ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
    RETURNING id
  `).Scan(&titleID); err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO employees (first_name, last_name, email, password_hash, department_id, user_type_id, job_title_id)
    VALUES ('System', 'Admin', $1, $2, $3, $4, $5)
  `, email, hash, deptID, userTypeID, titleID)
	return err
}
