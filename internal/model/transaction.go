package model

import "time"

// Transaction types.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidTransactionType reports whether t is one of the known transaction types.
func ValidTransactionType(t string) bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}

// ValidTransactionStatus reports whether s is one of the known statuses.
func ValidTransactionStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// Transaction represents a single financial transaction on an account.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CategoryID  *string
	ID          string
	UserID      string
	AccountID   string
	Description string
	Type        string // income, expense or transfer
	Status      string // pending, completed or cancelled
	Payee       string
	Reference   string
	Notes       string
	Tags        []string
	Amount      float64
}

// SignedAmount returns the balance delta this transaction implies: incomes
// add their amount, expenses subtract theirs. A negative amount inverts the
// effect, which is how corrections work. Transfer legs carry their own sign
// via Amount.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}
