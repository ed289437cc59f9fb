package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aimerkz/yatube/internal/auth"
	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// SignupInput is the signup form as submitted.
type SignupInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password1 string
	Password2 string
}

// AuthService handles signup, login and session token resolution.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Signup creates an account and returns it with a session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	s.logger.Info("Signup request", "username", in.Username)

	profile := auth.Profile{
		Username:  strings.TrimSpace(in.Username),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}

	verr := &ValidationError{}
	switch {
	case profile.Username == "":
		verr.Add("username", msgRequired)
	case len(profile.Username) > 150 || !usernamePattern.MatchString(profile.Username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if profile.Email != "" {
		if _, err := mail.ParseAddress(profile.Email); err != nil {
			verr.Add("email", "Enter a valid email address.")
		}
	}
	if in.Password1 == "" {
		verr.Add("password1", msgRequired)
	}
	if in.Password2 == "" {
		verr.Add("password2", msgRequired)
	} else if in.Password1 != in.Password2 {
		verr.Add("password2", "The two password fields didn't match.")
	}
	if err := verr.Err(); err != nil {
		return nil, "", err
	}

	user, err := s.authenticator.Register(ctx, profile, in.Password1)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			verr.Add("username", "A user with that username already exists.")
			return nil, "", verr
		case errors.Is(err, auth.ErrWeakPassword):
			verr.Add("password2", "This password is too short. It must contain at least 8 characters.")
			return nil, "", verr
		}
		s.logger.Error("Registration failed", "username", profile.Username, "error", err)
		return nil, "", fmt.Errorf("failed to register: %w", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login checks the credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	s.logger.Info("Login request", "username", username)

	user, err := s.authenticator.Authenticate(ctx, strings.TrimSpace(username), password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("Login successful", "user_id", user.ID)
	return user, token, nil
}

// UserFromToken resolves a session token to a live user. Tokens for
// deleted accounts are rejected.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// TokenTTL returns the lifetime of issued tokens, for the cookie MaxAge.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtManager.Duration()
}
