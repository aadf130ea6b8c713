package repositories

import (
	"context"
	"fmt"

	"loginaudit/internal/database"
	"loginaudit/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAttemptRepository handles database operations for the login_audit table
type LoginAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{pool: db.Pool}
}

// scanAttemptRow populates a LoginAttempt model from a database row
func scanAttemptRow(row rowScanner) (*models.LoginAttempt, error) {
	var attempt models.LoginAttempt

	err := row.Scan(&attempt.ID, &attempt.Login, &attempt.IP, &attempt.Time)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &attempt, nil
}

// scanAttemptRows iterates through rows and scans each into LoginAttempt models
func scanAttemptRows(rows pgx.Rows) ([]*models.LoginAttempt, error) {
	defer rows.Close()

	attempts := make([]*models.LoginAttempt, 0)

	for rows.Next() {
		attempt, err := scanAttemptRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login attempt rows: %w", err)
	}

	return attempts, nil
}

// Insert appends a new failed login record and returns its assigned id
func (r *LoginAttemptRepository) Insert(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
	query := `
		INSERT INTO login_audit (login, ip, time)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, attempt.Login, attempt.IP, attempt.Time).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert login attempt: %w", database.MapPostgresError(err))
	}

	return id, nil
}

// ListAll returns every recorded attempt. Ordered by id for stable
// rendering; callers must not rely on any particular order.
func (r *LoginAttemptRepository) ListAll(ctx context.Context) ([]*models.LoginAttempt, error) {
	query := `SELECT id, login, ip, time FROM login_audit ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}

	return scanAttemptRows(rows)
}

// GetByID returns a single attempt, or models.ErrNotFound
func (r *LoginAttemptRepository) GetByID(ctx context.Context, id int64) (*models.LoginAttempt, error) {
	query := `SELECT id, login, ip, time FROM login_audit WHERE id = $1`

	return scanAttemptRow(r.pool.QueryRow(ctx, query, id))
}

// DeleteByID removes an attempt. Returns true if a record existed;
// deleting a missing id is a no-op, not an error.
func (r *LoginAttemptRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM login_audit WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete login attempt: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
