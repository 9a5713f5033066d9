package model

import "time"

// BudgetPeriod is a named date range budgets are allocated within.
type BudgetPeriod struct {
	StartDate time.Time
	EndDate   time.Time
	ID        string
	UserID    string
	Name      string
}

// Budget tracks an allocation against a category for a period.
// SpentAmount is monotonically non-decreasing and is only updated by
// transaction-writing operations.
type Budget struct {
	ID              string
	UserID          string
	PeriodID        string
	CategoryID      string
	AllocatedAmount float64
	SpentAmount     float64
}

// Goal tracks progress toward a savings target. CurrentAmount is
// monotonically non-decreasing and is only updated by transaction-writing
// operations.
type Goal struct {
	TargetDate    *time.Time
	CreatedAt     time.Time
	ID            string
	UserID        string
	Name          string
	Description   string
	TargetAmount  float64
	CurrentAmount float64
	Priority      int // 1 (highest) through 5, 0 when unset
}
