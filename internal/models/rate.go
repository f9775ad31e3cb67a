package models

import "time"

// RateObservation is one exchange-rate sample for a currency, quoted in the
// ledger's home currency per one unit of the foreign currency. Immutable once
// recorded; duplicate dates are allowed and left to the feed layer to dedupe.
type RateObservation struct {
	Currency Currency  `json:"currency"`
	Date     time.Time `json:"date"`
	Rate     float64   `json:"rate"`
}
