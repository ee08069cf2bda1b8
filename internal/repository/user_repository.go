package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/query"
	"github.com/chesterOps/salem-server/pkg/database"
)

const userColumns = `id, email, first_name, last_name, password_hash, role, active, password_changed_at, refresh_token, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email, including the password hash
// and refresh-token fields that list reads never expose.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Update updates an existing user. The password-changed timestamp is
// persisted so previously issued access tokens can be invalidated.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, password_hash = $5,
		    role = $6, active = $7, password_changed_at = $8, updated_at = $9
		WHERE id = $1
	`

	user.UpdatedAt = time.Now()

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.Active,
		user.PasswordChangedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return checkAffected(result, "user", user.ID)
}

// Delete deletes a user by ID
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, "user", id)
}

// FindMany executes a read plan against the user collection.
func (r *userRepository) FindMany(ctx context.Context, plan *query.Plan) ([]*domain.User, error) {
	where, args := plan.WhereSQL()
	page, pageArgs := plan.PageSQL(len(args) + 1)
	args = append(args, pageArgs...)

	stmt := `SELECT ` + userColumns + ` FROM users` + where + plan.OrderSQL() + page

	rows, err := r.db.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// SetRefreshToken overwrites the single refresh-token slot, invalidating
// whatever token was stored before.
func (r *userRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, userID, token)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return checkAffected(result, "user", userID)
}

// RotateRefreshToken replaces the stored refresh token only if it still
// equals the presented one. Row-level atomicity of the conditional
// UPDATE guarantees at most one concurrent rotation succeeds.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`,
		userID, oldToken, newToken)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTokenMismatch
	}

	return nil
}

// ClearRefreshToken empties the refresh-token slot. Clearing a user
// that is already logged out is not an error.
func (r *userRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.db.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token = NULL WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var passwordChangedAt sql.NullTime
	var refreshToken sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&passwordChangedAt,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordChangedAt.Valid {
		user.PasswordChangedAt = &passwordChangedAt.Time
	}
	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}

	return user, nil
}

func checkAffected(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s with id %s not found: %w", entity, id, ErrNotFound)
	}
	return nil
}
