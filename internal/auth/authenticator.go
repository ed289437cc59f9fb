package auth

import (
	"context"

	"github.com/aimerkz/yatube/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The web layer depends on this interface only, so the credential check can
// change without touching handlers.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on
	// the implementation.
	Register(ctx context.Context, profile Profile, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user if it matches.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

// Profile is the public part of a new account.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}
