package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meetings-api/internal/domain/user"
	"meetings-api/pkg/database"
	apperrors "meetings-api/pkg/errors"
)

type SQLUserRepository struct {
	db      DBTX
	dialect database.Dialect
}

func NewUserRepository(db DBTX, dialect database.Dialect) UserRepository {
	return &SQLUserRepository{db: db, dialect: dialect}
}

const userColumns = `id, username, email, password_hash, date_joined`

// Create inserts u and fills in its generated ID.
func (r *SQLUserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, `
        INSERT INTO users (username, email, password_hash, date_joined)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `), u.Username, u.Email, u.PasswordHash, u.DateJoined).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *SQLUserRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.dialect,
		`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	return scanUser(row)
}

func (r *SQLUserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.dialect,
		`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	return scanUser(row)
}

func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, rebind(r.dialect,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`), username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, timestamp{t: &u.DateJoined})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, apperrors.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
