package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account_service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateEmail    = errors.New("email is already registered")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrUserNotFound      = errors.New("user not found")
)

// DB is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user account data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListAll(ctx context.Context) ([]model.User, error)
	DeleteByID(ctx context.Context, id string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database, assigning it an ID.
// Uniqueness of username and email is enforced by the database, so two
// concurrent signups with the same email cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.NewString()
	sql := `INSERT INTO users (id, username, email, password_hash, phone_number, role)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, user.ID, user.Username, user.Email, user.PasswordHash, user.PhoneNumber, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// mapUniqueViolation translates a unique-constraint violation into the
// matching sentinel, or returns nil if err is something else.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_username_key":
		return ErrDuplicateUsername
	}
	return fmt.Errorf("unique violation on %s: %w", pgErr.ConstraintName, err)
}

const userColumns = `id, username, email, password_hash, phone_number, role, reset_token, reset_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.PhoneNumber,
		&user.Role, &user.ResetToken, &user.ResetTokenExpiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByResetToken retrieves the user holding the given reset token, but
// only while the token is unexpired. An expired or unknown token is
// indistinguishable from "no such user" to the caller.
func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_token_expiry > NOW()`
	user, err := scanUser(r.db.QueryRow(ctx, sql, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by reset token: %w", err)
	}
	return user, nil
}

// SetResetToken stores a reset token and its expiry on the user's record
func (r *userRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	sql := `UPDATE users SET reset_token = $2, reset_token_expiry = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, id, token, expiry)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the user's password hash and clears any
// outstanding reset token. Both happen in a single statement so a reset
// can never leave a used token behind.
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAll retrieves all users. The password hash and reset token are
// projected out at the query level and left zero-valued.
func (r *userRepository) ListAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT id, username, email, phone_number, role, created_at, updated_at FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// DeleteByID permanently removes a user by their ID
func (r *userRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
