package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// RegisterTokenInput is a push-token registration from a client.
type RegisterTokenInput struct {
	UserID   int64   `json:"userId"`
	Token    string  `json:"token"`
	DeviceID *string `json:"deviceId"`
	Platform *string `json:"platform"`
}

// FCMTokenService keeps one push token per (user, device).
type FCMTokenService struct {
	store  storage.FCMTokenStore
	logger *slog.Logger
}

func NewFCMTokenService(store storage.FCMTokenStore, logger *slog.Logger) *FCMTokenService {
	return &FCMTokenService{store: store, logger: orDefault(logger)}
}

// Register updates the registration of a known device or inserts a new one.
// created reports whether a row was inserted.
func (s *FCMTokenService) Register(ctx context.Context, in RegisterTokenInput) (token *models.FCMToken, created bool, err error) {
	if in.UserID <= 0 || strings.TrimSpace(in.Token) == "" {
		return nil, false, invalid("User ID and token are required")
	}
	in.Platform = normalizePlatform(in.Platform)

	if in.DeviceID != nil && *in.DeviceID != "" {
		existing, err := s.store.FindFCMToken(ctx, in.UserID, *in.DeviceID)
		switch {
		case err == nil:
			existing.Token = in.Token
			existing.Platform = in.Platform
			if err := s.store.UpdateFCMToken(ctx, existing); err != nil {
				s.logger.Error("UpdateFCMToken failed", "user_id", in.UserID, "error", err)
				return nil, false, err
			}
			return existing, false, nil
		case !errors.Is(err, storage.ErrNotFound):
			return nil, false, err
		}
	}

	token = &models.FCMToken{
		UserID:   in.UserID,
		Token:    in.Token,
		DeviceID: in.DeviceID,
		Platform: in.Platform,
	}
	if err := s.store.CreateFCMToken(ctx, token); err != nil {
		s.logger.Error("CreateFCMToken failed", "user_id", in.UserID, "error", err)
		return nil, false, err
	}
	return token, true, nil
}

func (s *FCMTokenService) List(ctx context.Context, userID int64) ([]models.FCMToken, error) {
	if userID <= 0 {
		return nil, invalid("User ID is required")
	}
	return s.store.ListFCMTokens(ctx, userID)
}

// Delete removes registrations by token, or by device ID when token is
// empty. Removing nothing is not an error.
func (s *FCMTokenService) Delete(ctx context.Context, token, deviceID string) error {
	if token == "" && deviceID == "" {
		return invalid("Token or device ID is required")
	}
	n, err := s.store.DeleteFCMTokens(ctx, token, deviceID)
	if err != nil {
		s.logger.Error("DeleteFCMTokens failed", "error", err)
		return err
	}
	s.logger.Debug("FCM tokens deleted", "count", n)
	return nil
}

// normalizePlatform lowercases the known platform names. Other values are
// free text and are kept as sent. Blank means unset.
func normalizePlatform(p *string) *string {
	if p == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*p)
	if trimmed == "" {
		return nil
	}
	for _, known := range []string{models.PlatformIOS, models.PlatformAndroid, models.PlatformWeb} {
		if strings.EqualFold(trimmed, known) {
			return &known
		}
	}
	return &trimmed
}
