package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/repository"
)

func newTestAuthService(t *testing.T) (*UserAuthService, *models.User) {
	t.Helper()
	db := openServiceTestDB(t)
	hash, err := HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := &models.User{
		Email:        "client@example.com",
		PasswordHash: hash,
		FirstName:    "Olga",
		Phone:        "+79991112233",
		Company:      "Studio",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	repo := repository.NewUserRepository(db)
	return NewUserAuthService(config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1}, repo), user
}

func TestUserLoginAndParseToken(t *testing.T) {
	svc, user := newTestAuthService(t)

	got, token, expiresAt, err := svc.Login(" Client@Example.com ", "secret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != user.ID || token == "" || expiresAt.IsZero() {
		t.Fatalf("unexpected login result: %+v %q %v", got, token, expiresAt)
	}
	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewUserAuthService(config.JWTConfig{SecretKey: "other"}, nil)
	if _, err := other.ParseUserJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret should be rejected, got %v", err)
	}
}

func TestUserLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	if _, _, _, err := svc.Login("client@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "secret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("not-an-email", "secret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestUserLoginDisabled(t *testing.T) {
	svc, user := newTestAuthService(t)
	if err := openServiceTestDB(t).Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("client@example.com", "secret-pass"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("want ErrUserDisabled got %v", err)
	}
}

func TestGetContactAndAuthState(t *testing.T) {
	svc, user := newTestAuthService(t)
	contact, err := svc.GetContact(user.ID)
	if err != nil {
		t.Fatalf("get contact failed: %v", err)
	}
	if contact.FirstName != "Olga" || contact.Email != "client@example.com" || contact.Company != "Studio" {
		t.Fatalf("unexpected contact: %+v", contact)
	}
	if _, err := svc.GetContact(9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound got %v", err)
	}

	state, err := svc.ResolveAuthState(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("resolve auth state failed: %v", err)
	}
	if !state.IsActive || state.UserID != user.ID {
		t.Fatalf("unexpected state: %+v", state)
	}
}
