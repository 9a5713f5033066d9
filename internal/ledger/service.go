// Package ledger composes the validation engine and the storage layer into
// the command surface consumed by the presentation layer. Every write is
// validated before any statement is built; multi-step writes are gathered
// into a single atomic run so a failed operation leaves zero trace.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
	"github.com/pocketledger/pocketledger/internal/validation"
)

// Service executes validated ledger commands against the store.
type Service struct {
	store *storage.Store
}

// NewService creates a ledger service on top of an injected store.
func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// Store exposes the underlying connection manager for status polling.
func (s *Service) Store() *storage.Store {
	return s.store
}

// RegisterUser validates and creates a user.
func (s *Service) RegisterUser(ctx context.Context, req validation.CreateUserRequest) (*model.User, error) {
	if result := validation.ValidateCreateUserRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	user := model.User{
		ID:       uuid.New().String(),
		Username: validation.SanitizeString(req.Username),
		Email:    req.Email,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, storageError("failed to create user", err)
	}
	return &user, nil
}

// CreateAccount validates and creates an account. The account type must
// name an existing lookup row; the ledger core never defaults it.
func (s *Service) CreateAccount(ctx context.Context, req validation.CreateAccountRequest) (*model.Account, error) {
	if result := validation.ValidateCreateAccountRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	if _, err := s.store.GetAccountType(ctx, req.AccountTypeID); err != nil {
		return nil, storageError("unknown account type", err)
	}

	account := model.Account{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		AccountTypeID: req.AccountTypeID,
		Name:          validation.SanitizeString(req.Name),
		Currency:      req.Currency,
		Institution:   validation.SanitizeString(req.Institution),
		AccountNumber: validation.SanitizeString(req.AccountNumber),
		IsActive:      true,
	}
	if req.Balance != nil {
		account.Balance = *req.Balance
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, storageError("failed to create account", err)
	}
	return &account, nil
}

// GetAccount returns an account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, storageError("failed to load account", err)
	}
	return account, nil
}

// ListAccounts returns a user's accounts.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list accounts", err)
	}
	return accounts, nil
}

// UpdateAccount updates account metadata (not the balance).
func (s *Service) UpdateAccount(ctx context.Context, account model.Account) error {
	if result := validation.ValidateCreateAccountRequest(validation.CreateAccountRequest{
		UserID:        account.UserID,
		AccountTypeID: account.AccountTypeID,
		Name:          account.Name,
		Currency:      account.Currency,
		Institution:   account.Institution,
		AccountNumber: account.AccountNumber,
	}); !result.IsValid {
		return validationError(result)
	}
	account.Name = validation.SanitizeString(account.Name)
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return storageError("failed to update account", err)
	}
	return nil
}

// SetAccountBalance performs an explicit administrative balance update.
func (s *Service) SetAccountBalance(ctx context.Context, id string, balance float64) error {
	if errs := validation.ValidateAmount(balance, "balance", true, true); len(errs) > 0 {
		return validationError(validation.Result{Errors: errs})
	}
	if err := s.store.SetAccountBalance(ctx, id, balance); err != nil {
		return storageError("failed to set balance", err)
	}
	return nil
}

// DeactivateAccount soft-deletes an account.
func (s *Service) DeactivateAccount(ctx context.Context, id string) error {
	if err := s.store.DeactivateAccount(ctx, id); err != nil {
		return storageError("failed to deactivate account", err)
	}
	return nil
}

// CreateCategory validates and creates a category.
func (s *Service) CreateCategory(ctx context.Context, req validation.CreateCategoryRequest) (*model.Category, error) {
	if result := validation.ValidateCreateCategoryRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	category := model.Category{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
		IsIncome:    req.IsIncome,
		ParentID:    req.ParentID,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, storageError("failed to create category", err)
	}
	return &category, nil
}

// GetCategory returns a category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, storageError("failed to load category", err)
	}
	return category, nil
}

// ListCategories returns a user's categories.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list categories", err)
	}
	return categories, nil
}

// UpdateCategory updates a category; a parent change that would close a
// cycle is rejected by the store.
func (s *Service) UpdateCategory(ctx context.Context, category model.Category) error {
	if result := validation.ValidateCreateCategoryRequest(validation.CreateCategoryRequest{
		UserID:      category.UserID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
	}); !result.IsValid {
		return validationError(result)
	}
	category.Name = validation.SanitizeString(category.Name)
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return storageError("failed to update category", err)
	}
	return nil
}

// DeleteCategory removes a category that no transaction references.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return storageError("failed to delete category", err)
	}
	return nil
}

// activeAccount loads an account and rejects writes against inactive ones.
func (s *Service) activeAccount(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, storageError("failed to load account", err)
	}
	if !account.IsActive {
		return nil, &CommandError{
			Message: fmt.Sprintf("account %s is inactive", id),
			Code:    CodeAccountInactive,
			Err:     common.ErrAccountInactive,
		}
	}
	return account, nil
}
