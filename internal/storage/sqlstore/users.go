package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

var userColumns = []string{"id", "name", "email", "password_hash", "phone_number", "created_at"}

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = s.timestamp()
	}

	query, args, err := s.sb.Insert("users").
		Columns("name", "email", "password_hash", "phone_number", "created_at").
		Values(user.Name, user.Email, user.PasswordHash, user.PhoneNumber, user.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"id": id})
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"email": email})
}

func (s *Store) getUser(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user := &models.User{}
	err = s.db.GetContext(ctx, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user list query: %w", err)
	}

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser overwrites the mutable fields of an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	query, args, err := s.sb.Update("users").
		SetMap(map[string]any{
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"phone_number":  user.PhoneNumber,
		}).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrConflict)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, "user")
}

// DeleteUser removes a user. Friends, bills (with their items and
// participants), payment methods and push tokens go with it by cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "users", id)
}

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	query, args, err := s.sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete: %w", table, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return requireAffected(res, table)
}

// requireAffected turns "zero rows touched" into storage.ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
