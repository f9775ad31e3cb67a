package models

import "time"

// Trend classifies recent rate movement over an analysis window.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// TrendResult holds descriptive statistics and a 7-day prediction for one
// currency, recomputed on demand from a window of rate observations.
type TrendResult struct {
	Currency      Currency `json:"currency"`
	CurrentRate   float64  `json:"current_rate"`
	ChangeAmount  float64  `json:"change_amount"`
	ChangePercent float64  `json:"change_percent"`
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	Avg           float64  `json:"avg"`
	Trend         Trend    `json:"trend"`
	Volatility    float64  `json:"volatility"`
	PredictedRate float64  `json:"predicted_rate"`
	Confidence    float64  `json:"confidence"`
}

// Prediction is the output of the linear-regression rate predictor.
// Confidence is the R-squared of the fit, in [0, 1].
type Prediction struct {
	Rate       float64 `json:"rate"`
	Confidence float64 `json:"confidence"`
}

// DayStat summarizes historical rates for one day of the week.
type DayStat struct {
	Day    time.Weekday `json:"day"`
	Mean   float64      `json:"mean"`
	StdDev float64      `json:"std_dev"`
	Count  int          `json:"count"`
}

// TradingTimes ranks weekdays by historical mean rate. BuyDay is the weekday
// with the lowest mean (foreign currency is cheapest), SellDay the highest.
type TradingTimes struct {
	BuyDay   time.Weekday `json:"buy_day"`
	SellDay  time.Weekday `json:"sell_day"`
	DayStats []DayStat    `json:"day_stats"`
}
