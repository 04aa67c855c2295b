package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"user-accounts/internal/data/entity"
	"user-accounts/pkg/apperror"
	"user-accounts/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateID is returned by Create when the generated id is taken.
var ErrDuplicateID = errors.New("user id already exists")

const uniqueViolation = "23505"

// uniqueConstraints maps the users table unique constraints to the request
// field they protect.
var uniqueConstraints = map[string]struct{ field, message string }{
	"users_username_key":       {"username", "This username is already in use."},
	"users_email_key":          {"email", "This email is already in use."},
	"users_phone_number_key":   {"phone_number", "This phone number is already in use."},
	"users_license_number_key": {"license_number", "This license number is already in use."},
}

const userColumns = `id, name, gender, email, username, phone_number, date_of_birth,
		       address, license_number, password_hash, is_verified, is_staff,
		       is_superuser, last_login, created_at`

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	Search(ctx context.Context, query string) ([]*entity.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user. Uniqueness is left to the table constraints: a
// violation comes back as a validation error naming the field, or as
// ErrDuplicateID when the primary key collides.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, gender, email, username, phone_number,
		                   date_of_birth, address, license_number, password_hash,
		                   is_verified, is_staff, is_superuser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Gender,
		user.Email,
		user.Username,
		user.PhoneNumber,
		user.DateOfBirth,
		user.Address,
		user.LicenseNumber,
		user.PasswordHash,
		user.IsVerified,
		user.IsStaff,
		user.IsSuperuser,
		user.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == "users_pkey" {
			return ErrDuplicateID
		}
		if c, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return apperror.Validation(c.field, c.message)
		}
	}

	ur.log.Error("Failed to create user",
		zap.Error(err),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
	)
	return fmt.Errorf("create user %s: %w", user.Email, err)
}

func (ur *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll returns every user, newest first
func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}

	return ur.collect(rows)
}

// Search matches query case-insensitively as a substring of name or username.
func (ur *userRepository) Search(ctx context.Context, query string) ([]*entity.User, error) {
	sql := `
		SELECT ` + userColumns + `
		FROM users
		WHERE name ILIKE $1 ESCAPE '\' OR username ILIKE $1 ESCAPE '\'
		ORDER BY created_at DESC
	`

	rows, err := ur.db.Query(ctx, sql, containsPattern(query))
	if err != nil {
		ur.log.Error("Failed to search users", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("search users %q: %w", query, err)
	}

	return ur.collect(rows)
}

// MarkVerified sets is_verified. Calling it for an already verified user is a no-op.
func (ur *userRepository) MarkVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET is_verified = TRUE WHERE id = $1 AND is_verified = FALSE`

	if _, err := ur.db.Exec(ctx, query, id); err != nil {
		ur.log.Error("Failed to mark user verified", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("mark user %s verified: %w", id, err)
	}

	return nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		ur.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("update password for user %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

func (ur *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`

	if _, err := ur.db.Exec(ctx, query, id, at); err != nil {
		ur.log.Error("Failed to update last login", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("update last login for user %s: %w", id, err)
	}

	return nil
}

func (ur *userRepository) collect(rows pgx.Rows) ([]*entity.User, error) {
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Gender,
		&user.Email,
		&user.Username,
		&user.PhoneNumber,
		&user.DateOfBirth,
		&user.Address,
		&user.LicenseNumber,
		&user.PasswordHash,
		&user.IsVerified,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.LastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
