package model

import "time"

// Transfer links two transactions that move money between two accounts.
// A transfer always owns exactly two transaction rows whose amounts net to
// zero across the source and destination accounts.
type Transfer struct {
	Date              time.Time
	CreatedAt         time.Time
	ID                string
	UserID            string
	FromAccountID     string
	ToAccountID       string
	FromTransactionID string
	ToTransactionID   string
	Description       string
	Amount            float64
}
