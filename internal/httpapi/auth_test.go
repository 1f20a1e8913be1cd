package httpapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
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

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	store := &userStoreStub{
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

func TestLoginRejectsInactiveAccount(t *testing.T) {
	store := &userStoreStub{
		users: map[string]domain.UserAccount{
			"oldclerk": {
				Username:  "oldclerk",
				Password:  "clerk123",
				Role:      "clerk",
				Active:    false,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, store)
	_, err := manager.Login(domain.LoginRequest{
		Username: "oldclerk",
		Password: "clerk123",
	})
	if err == nil {
		t.Fatalf("expected inactive account login to fail")
	}
}

func TestCreateClerkStoresPasswordHash(t *testing.T) {
	store := &userStoreStub{
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

	manager := NewAuthManager("test-secret", time.Hour, store)
	clerk, err := manager.CreateClerk(domain.ClerkCreateRequest{
		Username: "newclerk",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("create clerk failed: %v", err)
	}
	if clerk.Username != "newclerk" {
		t.Fatalf("unexpected username %s", clerk.Username)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	var found *domain.UserAccount
	for i := range users {
		if users[i].Username == "newclerk" {
			found = &users[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected clerk to be saved")
	}
	if found.Password == "pass1234" {
		t.Fatalf("expected clerk password to be hashed")
	}
	if !strings.HasPrefix(found.Password, "$2") {
		t.Fatalf("expected bcrypt hash prefix, got %s", found.Password)
	}

	_, err = manager.Login(domain.LoginRequest{
		Username: "newclerk",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("login with hashed clerk failed: %v", err)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{}}
	manager := NewAuthManager("test-secret", time.Hour, store)

	token, err := manager.sign("clerk1", domain.RoleClerk, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	actor, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if actor.Username != "clerk1" || actor.Role != domain.RoleClerk {
		t.Fatalf("unexpected actor %+v", actor)
	}

	other := NewAuthManager("another-secret-entirely", time.Hour, store)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatalf("expected token signed with different secret to be rejected")
	}
}

// failingUserStore accepts reads but fails every write, standing in for a
// user store whose backend is down.
type failingUserStore struct {
	userStoreStub
	createErr error
}

func (s *failingUserStore) CreateUser(context.Context, domain.UserAccount) error {
	return s.createErr
}

func TestCreateClerkSeparatesValidationFromStoreFailure(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, &userStoreStub{users: map[string]domain.UserAccount{}})

	_, err := manager.CreateClerk(domain.ClerkCreateRequest{Username: "ab", Password: "pass1234"})
	if !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("expected invalid entry for short username, got %v", err)
	}

	failing := &failingUserStore{createErr: errors.New("user store unavailable")}
	manager = NewAuthManager("test-secret", time.Hour, failing)
	_, err = manager.CreateClerk(domain.ClerkCreateRequest{Username: "newclerk", Password: "pass1234"})
	if err == nil {
		t.Fatalf("expected store failure to surface")
	}
	if errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("store failure must not read as a validation error: %v", err)
	}
}
