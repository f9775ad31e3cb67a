package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

const projectionMonths = 3

// PredictiveData projects the account balance three months forward from the
// current running balance, using the mean monthly sent/received across all
// history plus a short-term trend term from the last three monthly net flows.
// Fewer than 3 transactions or fewer than 3 distinct months returns a zeroed
// result with confidence "Low" and an empty trend: the minimum-data fallback.
func PredictiveData(txs []*models.Transaction) models.PredictiveData {
	fallback := models.PredictiveData{ConfidenceLevel: "Low", FutureTrend: []models.TrendPoint{}}
	if len(txs) < 3 {
		return fallback
	}

	monthly := MonthlyTotals(txs)
	if len(monthly) < 3 {
		return fallback
	}

	keys := make([]string, 0, len(monthly))
	var totalSent, totalReceived float64
	for k, t := range monthly {
		keys = append(keys, k)
		totalSent += t.Sent
		totalReceived += t.Received
	}
	sort.Strings(keys)

	months := float64(len(keys))
	projectedSent := totalSent / months
	projectedReceived := totalReceived / months

	// Two-point slope over the most recent 3 monthly net flows, not a full
	// regression: the window is too short for a fit to mean anything.
	recent := keys[len(keys)-projectionMonths:]
	trend := (monthly[recent[len(recent)-1]].Net - monthly[recent[0]].Net) / float64(len(recent)-1)

	balanced := CalculateBalances(txs)
	balance := balanced[len(balanced)-1].Balance

	futureTrend := make([]models.TrendPoint, 0, projectionMonths+1)
	futureTrend = append(futureTrend, models.TrendPoint{Label: "Current", Balance: balance})
	for i := 1; i <= projectionMonths; i++ {
		balance += projectedReceived - projectedSent + trend*float64(i)
		futureTrend = append(futureTrend, models.TrendPoint{Label: fmt.Sprintf("Month %d", i), Balance: balance})
	}

	return models.PredictiveData{
		ProjectedSent:     projectedSent,
		ProjectedReceived: projectedReceived,
		ProjectedNet:      projectedReceived - projectedSent,
		FutureTrend:       futureTrend,
		ConfidenceLevel:   confidenceLevel(txs, len(keys)),
	}
}

// confidenceLevel starts at Medium, upgrades to High past 6 months of
// history, then lets amount variability pull the level back down: the
// variability check can only ever lower the month-count-derived level.
func confidenceLevel(txs []*models.Transaction, monthCount int) string {
	level := "Medium"
	if monthCount > 6 {
		level = "High"
	}

	mean := 0.0
	for _, tx := range txs {
		mean += tx.Amount
	}
	mean /= float64(len(txs))
	if mean == 0 {
		return level
	}

	variance := 0.0
	for _, tx := range txs {
		variance += (tx.Amount - mean) * (tx.Amount - mean)
	}
	cv := math.Sqrt(variance/float64(len(txs))) / mean

	if cv > 0.8 {
		level = "Low"
	} else if cv > 0.5 && level == "High" {
		level = "Medium"
	}
	return level
}
