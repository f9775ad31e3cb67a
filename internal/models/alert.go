package models

import "time"

// AlertDirection says which side of the threshold triggers the alert.
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// Valid reports whether the direction is one of the known values.
func (d AlertDirection) Valid() bool {
	return d == AlertAbove || d == AlertBelow
}

// RateAlert is a user-defined rate threshold. One-shot: once triggered it
// stays silent until the user re-enables it.
type RateAlert struct {
	ID        string         `json:"id"`
	UserID    int64          `json:"user_id"`
	Currency  Currency       `json:"currency"`
	Direction AlertDirection `json:"direction"`
	Threshold float64        `json:"threshold"`
	Enabled   bool           `json:"enabled"`
	Triggered bool           `json:"triggered"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
