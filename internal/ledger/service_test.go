package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/testutil"
	"github.com/pocketledger/pocketledger/internal/validation"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(db.Store), db
}

// commandCode unwraps the service error envelope.
func commandCode(t *testing.T, err error) *CommandError {
	t.Helper()
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	return cmdErr
}

func TestRegisterUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, validation.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "StrongPass123!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	loaded, err := svc.store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
}

func TestRegisterUser_ValidationFailure(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterUser(context.Background(), validation.CreateUserRequest{
		Username: "al",
		Password: "weak",
	})
	cmdErr := commandCode(t, err)
	assert.Equal(t, CodeValidationFailed, cmdErr.Code)
	assert.Contains(t, cmdErr.Details, "username")
	assert.Contains(t, cmdErr.Details, "password")
}

func TestCreateAccount(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	balance := 1500.0
	account, err := svc.CreateAccount(ctx, validation.CreateAccountRequest{
		UserID:        db.UserID,
		AccountTypeID: db.CheckingTypeID,
		Name:          "Everyday Checking",
		Currency:      "USD",
		Balance:       &balance,
	})
	require.NoError(t, err)
	assert.True(t, account.IsActive)
	assert.InDelta(t, 1500.0, account.Balance, 0.001)

	loaded, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, loaded.Balance, 0.001)
}

func TestCreateAccount_UnknownType(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), validation.CreateAccountRequest{
		UserID:        db.UserID,
		AccountTypeID: "123e4567-e89b-42d3-a456-426614174000",
		Name:          "Mystery",
		Currency:      "USD",
	})
	cmdErr := commandCode(t, err)
	assert.Equal(t, CodeNotFound, cmdErr.Code)
}

func TestDeactivateAccount(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	account := db.SeedAccount("Old Checking", 100)

	require.NoError(t, svc.DeactivateAccount(ctx, account.ID))

	loaded, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)

	// Writes against the deactivated account are rejected.
	_, err = svc.CreateTransaction(ctx, validation.CreateTransactionRequest{
		UserID:      db.UserID,
		AccountID:   account.ID,
		Amount:      10,
		Description: "Should bounce",
		Date:        "2024-06-01",
		Type:        "expense",
	})
	cmdErr := commandCode(t, err)
	assert.Equal(t, CodeAccountInactive, cmdErr.Code)
	assert.ErrorIs(t, err, common.ErrAccountInactive)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, validation.CreateCategoryRequest{
		UserID: db.UserID,
		Name:   "Groceries",
	})
	require.NoError(t, err)

	categories, err := svc.ListCategories(ctx, db.UserID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Groceries", categories[0].Name)

	loaded, err := svc.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, loaded.ID)

	category.Description = "Food and household"
	require.NoError(t, svc.UpdateCategory(ctx, *category))

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	categories, err = svc.ListCategories(ctx, db.UserID)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDeleteCategory_InUse(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	account := db.SeedAccount("Checking", 500)
	category := db.SeedCategory("Groceries", false)

	_, err := svc.CreateTransaction(ctx, validation.CreateTransactionRequest{
		UserID:      db.UserID,
		AccountID:   account.ID,
		CategoryID:  &category.ID,
		Amount:      25,
		Description: "Weekly shop",
		Date:        "2024-06-01",
		Type:        "expense",
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, category.ID)
	require.Error(t, err)
}
