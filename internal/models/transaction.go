package models

import "time"

// TransactionType classifies a transaction as money leaving or entering the ledger.
type TransactionType string

const (
	TypeSent     TransactionType = "sent"
	TypeReceived TransactionType = "received"
)

// Valid reports whether the type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TypeSent || t == TypeReceived
}

// Transaction represents a financial transaction in a user's ledger.
// ExchangeRate is quoted as ToCurrency units per one FromCurrency unit.
// Balance is derived by analysis.CalculateBalances and never stored.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       int64           `json:"user_id"`
	Date         time.Time       `json:"date"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	ExchangeRate float64         `json:"exchange_rate"`
	Fees         float64         `json:"fees"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Balance      float64         `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
