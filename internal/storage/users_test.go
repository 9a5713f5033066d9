package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateUser(ctx, model.User{ID: uuid.New().String(), Username: "alice"})
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err = s.CreateUser(ctx, model.User{ID: uuid.New().String(), Username: "alice"})
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("duplicate username error = %v, want ErrDuplicateEntry", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := uuid.New().String()
	if err := s.CreateUser(ctx, model.User{ID: id, Username: "bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	user, err := s.GetUserByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if user.ID != id || user.Email != "bob@example.com" {
		t.Errorf("got user %+v, want id %s", user, id)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}
