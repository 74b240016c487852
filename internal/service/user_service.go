package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UserService manages accounts and issues login tokens.
type UserService struct {
	store         storage.UserStore
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store storage.UserStore, authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *UserService {
	return &UserService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        orDefault(logger),
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("ListUsers failed", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalid("Email is required")
	}
	return s.store.GetUserByEmail(ctx, email)
}

// CreateUser registers an account. The password is stored as a bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	s.logger.Info("Register request received", "email", in.Email)

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, invalid("Name, email, and password are required")
	}

	user, err := s.authenticator.Register(ctx, in.Name, in.Email, in.Password, in.PhoneNumber)
	if err != nil {
		s.logger.Warn("Registration failed", "email", in.Email, "error", err)
		return nil, mapAuthError(err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// UpdateUser applies the non-nil fields of patch. A new password is hashed
// before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if id <= 0 {
		return nil, invalid("Invalid user ID")
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalid("Name cannot be empty")
		}
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, invalid("Email cannot be empty")
		}
		user.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = patch.PhoneNumber
	}
	if patch.Password != nil {
		hashed, err := s.authenticator.HashCredential(*patch.Password)
		if err != nil {
			return nil, mapAuthError(err)
		}
		user.PasswordHash = hashed
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("UpdateUser failed", "user_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("UpdateUser successful", "user_id", id)
	return user, nil
}

// DeleteUser removes the account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("Invalid user ID")
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		s.logger.Warn("DeleteUser failed", "user_id", id, "error", err)
		return err
	}
	s.logger.Info("DeleteUser successful", "user_id", id)
	return nil
}

// Login authenticates a user and returns a JWT token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	s.logger.Info("Login request received", "email", email)

	if email == "" || password == "" {
		return nil, "", invalid("Email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return user, token, nil
}

func mapAuthError(err error) error {
	if errors.Is(err, auth.ErrWeakPassword) {
		return invalid("%s", err.Error())
	}
	return err
}
