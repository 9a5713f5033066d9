package model

import "time"

// Pagination defaults and bounds.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 1000
)

// Sort directions accepted by QueryFilter.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// QueryFilter describes criteria for listing transactions. All fields are
// optional; zero values mean "no constraint". Offset and Limit default to
// 0 and DefaultPageLimit.
type QueryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *float64
	MaxAmount  *float64
	CategoryID *string
	AccountID  string
	Type       string
	Status     string
	Search     string
	SortBy     string
	SortDir    string
	Offset     int
	Limit      int
}

// TransactionPage is the paginated listing envelope returned to callers.
type TransactionPage struct {
	Data       []Transaction `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// Statistics summarizes a filtered transaction set. The set is the same one
// a listing with an identical filter would return, so statistics and
// listings are always mutually consistent.
type Statistics struct {
	TransactionsByType   map[string]int `json:"transactions_by_type"`
	TransactionsByStatus map[string]int `json:"transactions_by_status"`
	TotalIncome          float64        `json:"total_income"`
	TotalExpenses        float64        `json:"total_expenses"`
	NetIncome            float64        `json:"net_income"`
	AverageAmount        float64        `json:"average_transaction_amount"`
	LargestIncome        float64        `json:"largest_income"`
	LargestExpense       float64        `json:"largest_expense"`
	TotalTransactions    int            `json:"total_transactions"`
}
