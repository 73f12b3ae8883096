package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func testStore(t *testing.T) *UserStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := Open(filepath.Join(t.TempDir(), "users.db"), logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	hash, err := HashPassword("strongpassword")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &User{ID: "user-1", Email: "Test@Gmail.com", Name: "Test User", PasswordHash: hash}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// Lookup is case-insensitive on email.
	got, err := s.GetByEmail(ctx, "test@gmail.com")
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("expected user-1, got %s", got.ID)
	}
	if !CheckPassword(got.PasswordHash, "strongpassword") {
		t.Error("stored hash does not match original password")
	}
	if CheckPassword(got.PasswordHash, "wrongpassword") {
		t.Error("wrong password must not match")
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	user := &User{ID: "user-1", Email: "test@gmail.com", PasswordHash: "x"}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	dup := &User{ID: "user-2", Email: "TEST@gmail.com", PasswordHash: "y"}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetUnknownUser(t *testing.T) {
	s := testStore(t)

	_, err := s.GetByEmail(context.Background(), "nobody@gmail.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
