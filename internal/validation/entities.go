package validation

import "github.com/pocketledger/pocketledger/internal/model"

// Request shapes accepted from the presentation layer. Composite validators
// below combine the primitive checks and add cross-field invariants; nothing
// here touches storage.

// CreateUserRequest carries the fields for registering a user.
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
}

// CreateAccountRequest carries the fields for creating an account.
type CreateAccountRequest struct {
	Balance       *float64
	UserID        string
	AccountTypeID string
	Name          string
	Currency      string
	Institution   string
	AccountNumber string
}

// CreateCategoryRequest carries the fields for creating a category.
type CreateCategoryRequest struct {
	ParentID    *string
	UserID      string
	Name        string
	Description string
	IsIncome    bool
}

// CreateTransactionRequest carries the fields for recording a transaction.
type CreateTransactionRequest struct {
	CategoryID  *string
	UserID      string
	AccountID   string
	Description string
	Date        string // ISO-8601 datetime
	Type        string
	Status      string
	Payee       string
	Reference   string
	Notes       string
	Tags        []string
	Amount      float64
}

// CreateTransferRequest carries the fields for moving money between two
// accounts.
type CreateTransferRequest struct {
	UserID        string
	FromAccountID string
	ToAccountID   string
	Description   string
	Date          string // ISO-8601 datetime
	Amount        float64
}

// CreateBudgetRequest carries the fields for allocating a budget.
type CreateBudgetRequest struct {
	UserID          string
	PeriodID        string
	CategoryID      string
	AllocatedAmount float64
}

// CreateGoalRequest carries the fields for creating a savings goal.
type CreateGoalRequest struct {
	UserID       string
	Name         string
	Description  string
	TargetDate   string // YYYY-MM-DD, optional
	TargetAmount float64
	Priority     int // optional, 1-5
}

// ValidateCreateUserRequest validates a user registration request.
func ValidateCreateUserRequest(req CreateUserRequest) Result {
	var errs []Error
	errs = append(errs, ValidateString(req.Username, "username", 3, 50, true)...)
	errs = append(errs, ValidateEmail(req.Email, false)...)
	errs = append(errs, ValidatePassword(req.Password)...)
	return resultOf(errs)
}

// ValidateCreateAccountRequest validates an account creation request.
func ValidateCreateAccountRequest(req CreateAccountRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateUUID(req.AccountTypeID, "account_type_id")...)
	errs = append(errs, ValidateString(req.Name, "name", 1, 100, true)...)
	errs = append(errs, ValidateCurrency(req.Currency)...)
	errs = append(errs, ValidateString(req.Institution, "institution", 1, 100, false)...)
	errs = append(errs, ValidateString(req.AccountNumber, "account_number", 1, 50, false)...)
	if req.Balance != nil {
		// Opening balances may be negative (overdrawn or credit accounts).
		errs = append(errs, ValidateAmount(*req.Balance, "balance", true, true)...)
	}
	return resultOf(errs)
}

// ValidateCreateCategoryRequest validates a category creation request.
func ValidateCreateCategoryRequest(req CreateCategoryRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateString(req.Name, "name", 1, 100, true)...)
	errs = append(errs, ValidateString(req.Description, "description", 1, 500, false)...)
	if req.ParentID != nil {
		errs = append(errs, ValidateUUID(*req.ParentID, "parent_id")...)
	}
	return resultOf(errs)
}

// ValidateCreateTransactionRequest validates a transaction request. The
// amount is signed; negative values are allowed for corrections.
func ValidateCreateTransactionRequest(req CreateTransactionRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateUUID(req.AccountID, "account_id")...)
	if req.CategoryID != nil {
		errs = append(errs, ValidateUUID(*req.CategoryID, "category_id")...)
	}
	errs = append(errs, ValidateAmount(req.Amount, "amount", true, false)...)
	errs = append(errs, ValidateString(req.Description, "description", 1, 255, true)...)
	errs = append(errs, ValidateDateTime(req.Date, "transaction_date")...)
	if !model.ValidTransactionType(req.Type) {
		errs = append(errs, Error{
			Field:   "type",
			Code:    CodeInvalidFormat,
			Message: "type must be income, expense or transfer",
		})
	}
	if req.Status != "" && !model.ValidTransactionStatus(req.Status) {
		errs = append(errs, Error{
			Field:   "status",
			Code:    CodeInvalidFormat,
			Message: "status must be pending, completed or cancelled",
		})
	}
	return resultOf(errs)
}

// ValidateCreateTransferRequest validates a transfer request. The source and
// destination accounts must differ and the amount must be strictly positive.
func ValidateCreateTransferRequest(req CreateTransferRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateUUID(req.FromAccountID, "from_account_id")...)
	errs = append(errs, ValidateUUID(req.ToAccountID, "to_account_id")...)
	if req.FromAccountID != "" && req.FromAccountID == req.ToAccountID {
		errs = append(errs, Error{
			Field:   "to_account_id",
			Code:    CodeSameAccount,
			Message: "source and destination accounts must differ",
		})
	}
	errs = append(errs, ValidateAmount(req.Amount, "amount", false, false)...)
	errs = append(errs, ValidateString(req.Description, "description", 1, 255, true)...)
	errs = append(errs, ValidateDateTime(req.Date, "transfer_date")...)
	return resultOf(errs)
}

// ValidateCreateBudgetRequest validates a budget allocation request.
func ValidateCreateBudgetRequest(req CreateBudgetRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateUUID(req.PeriodID, "period_id")...)
	errs = append(errs, ValidateUUID(req.CategoryID, "category_id")...)
	errs = append(errs, ValidateAmount(req.AllocatedAmount, "allocated_amount", false, false)...)
	return resultOf(errs)
}

// ValidateCreateGoalRequest validates a goal creation request.
func ValidateCreateGoalRequest(req CreateGoalRequest) Result {
	var errs []Error
	errs = append(errs, ValidateUUID(req.UserID, "user_id")...)
	errs = append(errs, ValidateString(req.Name, "name", 1, 100, true)...)
	errs = append(errs, ValidateString(req.Description, "description", 1, 500, false)...)
	errs = append(errs, ValidateAmount(req.TargetAmount, "target_amount", false, false)...)
	errs = append(errs, ValidateDate(req.TargetDate, "target_date", false)...)
	if req.Priority != 0 && (req.Priority < 1 || req.Priority > 5) {
		errs = append(errs, Error{
			Field:   "priority",
			Code:    CodeInvalidRange,
			Message: "priority must be between 1 and 5",
		})
	}
	return resultOf(errs)
}
