package models

// FinancialStats represents ledger-wide totals and the latest activity.
type FinancialStats struct {
	TotalSent      float64 `json:"total_sent"`
	TotalReceived  float64 `json:"total_received"`
	NetBalance     float64 `json:"net_balance"`
	RecentActivity string  `json:"recent_activity"`
}

// AnalyticsData represents aggregate transaction analytics.
type AnalyticsData struct {
	AvgTransaction     float64 `json:"avg_transaction"`
	LargestTransaction float64 `json:"largest_transaction"`
	Frequency          float64 `json:"frequency"` // transactions per calendar month
	GrowthRate         float64 `json:"growth_rate"`
}

// MonthlyTotal aggregates sent and received amounts for one calendar month.
type MonthlyTotal struct {
	Sent     float64 `json:"sent"`
	Received float64 `json:"received"`
	Net      float64 `json:"net"`
}

// TrendPoint is one projected balance in a forecast series.
type TrendPoint struct {
	Label   string  `json:"label"` // "Current", "Month 1", ...
	Balance float64 `json:"balance"`
}

// PredictiveData represents a 3-month balance projection with a heuristic
// confidence label ("Low", "Medium", "High").
type PredictiveData struct {
	ProjectedSent     float64      `json:"projected_sent"`
	ProjectedReceived float64      `json:"projected_received"`
	ProjectedNet      float64      `json:"projected_net"`
	FutureTrend       []TrendPoint `json:"future_trend"`
	ConfidenceLevel   string       `json:"confidence_level"`
}
