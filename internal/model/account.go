// Package model defines the core ledger entities shared across the application.
package model

import "time"

// User represents an owner of ledger data.
type User struct {
	CreatedAt time.Time
	ID        string
	Username  string
	Email     string
}

// AccountType is a lookup row describing the kind of an account
// (checking, savings, credit, cash, investment).
type AccountType struct {
	ID   string
	Name string
}

// Account represents a financial account holding a running balance.
// Balance is only mutated through committed ledger transactions or an
// explicit administrative update.
type Account struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	UserID        string
	AccountTypeID string
	Name          string
	Currency      string // ISO 4217 code
	Institution   string
	AccountNumber string
	Balance       float64
	IsActive      bool
}
