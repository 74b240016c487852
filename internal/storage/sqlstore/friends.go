package sqlstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mmynk/splitbill/internal/models"
)

// CreateFriend inserts a contact for friend.UserID.
func (s *Store) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.CreatedAt == 0 {
		friend.CreatedAt = s.timestamp()
	}

	query, args, err := s.sb.Insert("friends").
		Columns("user_id", "friend_name", "email", "phone_number", "created_at").
		Values(friend.UserID, friend.Name, friend.Email, friend.PhoneNumber, friend.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build friend insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&friend.ID); err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// ListFriends returns the user's contacts in insertion order.
func (s *Store) ListFriends(ctx context.Context, userID int64) ([]models.Friend, error) {
	query, args, err := s.sb.
		Select("id", "user_id", "friend_name", "email", "phone_number", "created_at").
		From("friends").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build friend list query: %w", err)
	}

	friends := []models.Friend{}
	if err := s.db.SelectContext(ctx, &friends, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a contact by ID.
func (s *Store) DeleteFriend(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "friends", id)
}
