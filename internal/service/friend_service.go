package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// FriendService manages a user's contacts.
type FriendService struct {
	store  storage.FriendStore
	logger *slog.Logger
}

func NewFriendService(store storage.FriendStore, logger *slog.Logger) *FriendService {
	return &FriendService{store: store, logger: orDefault(logger)}
}

func (s *FriendService) ListFriends(ctx context.Context, userID int64) ([]models.Friend, error) {
	if userID <= 0 {
		return nil, invalid("User ID is required")
	}
	return s.store.ListFriends(ctx, userID)
}

// AddFriend stores a new contact and returns it with its assigned ID.
func (s *FriendService) AddFriend(ctx context.Context, friend *models.Friend) (*models.Friend, error) {
	if friend.UserID <= 0 || strings.TrimSpace(friend.Name) == "" {
		return nil, invalid("User ID and friend name are required")
	}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		s.logger.Error("AddFriend failed", "user_id", friend.UserID, "error", err)
		return nil, err
	}
	return friend, nil
}

func (s *FriendService) DeleteFriend(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("Invalid friend ID")
	}
	return s.store.DeleteFriend(ctx, id)
}
