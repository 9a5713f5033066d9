// Package testutil provides test fixtures for the ledger: an in-memory
// migrated database and pre-seeded user and account rows.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
)

// TestDB bundles an in-memory store with the fixture rows most tests need.
type TestDB struct {
	Store          *storage.Store
	t              *testing.T
	UserID         string
	CheckingTypeID string
	SavingsTypeID  string
}

// SetupTestDB creates a migrated in-memory database with one user and
// resolves the seeded checking/savings account type ids. Cleanup closes the
// store.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	userID := uuid.New().String()
	if err := store.CreateUser(ctx, model.User{ID: userID, Username: "testuser"}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	types, err := store.ListAccountTypes(ctx)
	if err != nil {
		t.Fatalf("failed to list account types: %v", err)
	}
	db := &TestDB{Store: store, t: t, UserID: userID}
	for _, at := range types {
		switch at.Name {
		case "checking":
			db.CheckingTypeID = at.ID
		case "savings":
			db.SavingsTypeID = at.ID
		}
	}
	if db.CheckingTypeID == "" || db.SavingsTypeID == "" {
		t.Fatal("seeded account types missing")
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return db
}

// SeedAccount creates an account for the fixture user and returns it.
func (db *TestDB) SeedAccount(name string, balance float64) model.Account {
	db.t.Helper()

	account := model.Account{
		ID:            uuid.New().String(),
		UserID:        db.UserID,
		AccountTypeID: db.CheckingTypeID,
		Name:          name,
		Currency:      "USD",
		Balance:       balance,
		IsActive:      true,
	}
	if err := db.Store.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account
}

// SeedCategory creates a category for the fixture user and returns it.
func (db *TestDB) SeedCategory(name string, isIncome bool) model.Category {
	db.t.Helper()

	category := model.Category{
		ID:       uuid.New().String(),
		UserID:   db.UserID,
		Name:     name,
		IsIncome: isIncome,
	}
	if err := db.Store.CreateCategory(context.Background(), category); err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return category
}
