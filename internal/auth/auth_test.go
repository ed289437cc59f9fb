package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aimerkz/yatube/internal/models"
	"github.com/aimerkz/yatube/internal/storage"
)

// memUsers is a map-backed UserStorage.
type memUsers struct {
	byName map[string]*models.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]*models.User)}
}

func (m *memUsers) CreateUser(ctx context.Context, user *models.User) error {
	if _, ok := m.byName[user.Username]; ok {
		return storage.ErrConflict
	}
	m.nextID++
	user.ID = m.nextID
	m.byName[user.Username] = user
	return nil
}

func (m *memUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := m.byName[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemUsers()).WithCost(bcrypt.MinCost)

	t.Run("Register hashes the password", func(t *testing.T) {
		user, err := a.Register(ctx, Profile{Username: "leo", FirstName: "Leo"}, "longenough")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "longenough" || user.PasswordHash == "" {
			t.Errorf("Expected hashed password, got %q", user.PasswordHash)
		}
	})

	t.Run("Register rejects short password", func(t *testing.T) {
		_, err := a.Register(ctx, Profile{Username: "short"}, "1234567")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("Register rejects taken username", func(t *testing.T) {
		_, err := a.Register(ctx, Profile{Username: "leo"}, "anotherpass")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "leo", "longenough"); err != nil {
			t.Errorf("Expected valid login, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "leo", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: 7, Username: "leo"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "leo" {
		t.Errorf("Claims mismatch: got %d/%s", claims.UserID, claims.Username)
	}

	t.Run("rejects other secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		old, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		if _, err := m.Validate(""); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %v", err)
		}
	})
}

func TestTokenCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTokenCookie(rec, "abc", time.Hour, false)

	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, CookieName+"=abc") || !strings.Contains(header, "HttpOnly") {
		t.Errorf("Unexpected Set-Cookie header: %s", header)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	if got := TokenFromRequest(req); got != "abc" {
		t.Errorf("TokenFromRequest = %q, want %q", got, "abc")
	}

	if got := TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("TokenFromRequest without cookie = %q, want empty", got)
	}
}
