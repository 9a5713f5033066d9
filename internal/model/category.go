package model

import "time"

// Category represents a transaction category. Categories form a tree via
// ParentID; the tree never contains cycles.
type Category struct {
	CreatedAt   time.Time
	ParentID    *string
	ID          string
	UserID      string
	Name        string
	Description string
	IsIncome    bool
}
