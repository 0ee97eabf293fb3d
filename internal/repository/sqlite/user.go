package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account and fills in the generated ID, the admin
// flag, and CreatedAt.
//
// The admin flag is computed inside the INSERT itself: the row being written
// is admin exactly when the table was empty at that instant. Doing it in one
// statement leaves the "who is first" race to SQLite's own serialization, so
// two concurrent registrations can never both come out as admin.
//
// A duplicate email surfaces as apperror.ErrConflict with the message the
// register flow flashes to the user.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	// RETURNING hands back the id and the flag the INSERT just decided, in
	// the same statement.
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, name, is_admin, created_at)
		 VALUES (?, ?, ?, (SELECT COUNT(*) = 0 FROM users), ?)
		 RETURNING id, is_admin`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
	).Scan(&user.ID, &user.IsAdmin)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("email", "You've already signed up with that email. Login instead.")
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, is_admin, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// GetUserByEmail retrieves a user by their login email.
// Returns apperror.ErrNotFound if the email is not registered.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, is_admin, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("no user registered with email %s", email),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &u, nil
}
