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

var fcmTokenColumns = []string{"id", "user_id", "token", "device_id", "platform", "created_at"}

// FindFCMToken looks up the registration of one device of a user.
func (s *Store) FindFCMToken(ctx context.Context, userID int64, deviceID string) (*models.FCMToken, error) {
	query, args, err := s.sb.Select(fcmTokenColumns...).
		From("fcm_tokens").
		Where(squirrel.Eq{"user_id": userID, "device_id": deviceID}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build token query: %w", err)
	}

	token := &models.FCMToken{}
	err = s.db.GetContext(ctx, token, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fcm token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fcm token: %w", err)
	}
	return token, nil
}

// CreateFCMToken inserts a new registration.
func (s *Store) CreateFCMToken(ctx context.Context, token *models.FCMToken) error {
	if token.CreatedAt == 0 {
		token.CreatedAt = s.timestamp()
	}

	query, args, err := s.sb.Insert("fcm_tokens").
		Columns("user_id", "token", "device_id", "platform", "created_at").
		Values(token.UserID, token.Token, token.DeviceID, token.Platform, token.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build token insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&token.ID); err != nil {
		return fmt.Errorf("failed to create fcm token: %w", err)
	}
	return nil
}

// UpdateFCMToken replaces the token string and platform of a registration.
func (s *Store) UpdateFCMToken(ctx context.Context, token *models.FCMToken) error {
	query, args, err := s.sb.Update("fcm_tokens").
		Set("token", token.Token).
		Set("platform", token.Platform).
		Where(squirrel.Eq{"id": token.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build token update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	return requireAffected(res, "fcm token")
}

// ListFCMTokens returns every registration of a user.
func (s *Store) ListFCMTokens(ctx context.Context, userID int64) ([]models.FCMToken, error) {
	query, args, err := s.sb.Select(fcmTokenColumns...).
		From("fcm_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build token list query: %w", err)
	}

	tokens := []models.FCMToken{}
	if err := s.db.SelectContext(ctx, &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list fcm tokens: %w", err)
	}
	return tokens, nil
}

// DeleteFCMTokens removes registrations matching token, or deviceID when
// token is empty.
func (s *Store) DeleteFCMTokens(ctx context.Context, token, deviceID string) (int64, error) {
	where := squirrel.Eq{"token": token}
	if token == "" {
		where = squirrel.Eq{"device_id": deviceID}
	}

	query, args, err := s.sb.Delete("fcm_tokens").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build token delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fcm tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
