package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"shilohridge/backend/internal/domain"
)

type userStoreStub struct {
	mu      sync.Mutex
	users   map[string]domain.UserAccount
	updates int
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = make(map[string]domain.UserAccount)
	}
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	user.Password = password
	s.users[username] = user
	s.updates++
	return nil
}

func newAdminStub() *userStoreStub {
	return &userStoreStub{
		users: map[string]domain.UserAccount{
			"admin": {
				Username:  "admin",
				Password:  "admin123",
				Role:      "admin",
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	store := newAdminStub()

	manager := NewAuthManager("test-secret", time.Hour, store)
	_, err := manager.Login(domain.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Password == "admin123" {
		t.Fatalf("expected password to be upgraded from plain-text")
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", users[0].Password)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, newAdminStub())

	if _, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "not-it"}); err == nil {
		t.Fatalf("expected login with wrong password to fail")
	}
	if _, err := manager.Login(domain.LoginRequest{Username: "nobody", Password: "admin123"}); err == nil {
		t.Fatalf("expected login with unknown user to fail")
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, newAdminStub())

	resp, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.Username != "admin" || actor.Role != "admin" {
		t.Fatalf("unexpected actor %+v", actor)
	}

	if _, err := manager.ParseToken(resp.AccessToken + "tampered"); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestChangePasswordValidatesAndPersists(t *testing.T) {
	store := newAdminStub()
	manager := NewAuthManager("test-secret", time.Hour, store)

	if err := manager.ChangePassword("admin", "wrong", "longenough1"); err == nil {
		t.Fatalf("expected wrong current password to be rejected")
	}
	if err := manager.ChangePassword("admin", "admin123", "short"); err == nil {
		t.Fatalf("expected short new password to be rejected")
	}

	if err := manager.ChangePassword("admin", "admin123", "new-password-1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if store.updates == 0 {
		t.Fatalf("expected password update to reach the store")
	}

	if _, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "admin123"}); err == nil {
		t.Fatalf("expected old password to stop working")
	}
	if _, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "new-password-1"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
