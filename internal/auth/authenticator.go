package auth

import (
	"context"

	"github.com/mmynk/splitbill/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	// Returns ErrEmailExists if the email is already registered.
	Register(ctx context.Context, name, email, credential string, phone *string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error

	// HashCredential validates the credential and returns the form that is
	// stored, for credential changes on an existing account.
	HashCredential(credential string) (string, error)
}
