// Package analysis implements the numeric core of the tracker: rate-series
// trend statistics, linear-regression rate prediction, ledger balance and
// aggregate analytics, and balance projection. Every function here is pure
// and total over well-formed input: insufficient data yields a nil or zeroed
// result, never an error. Input validation belongs to the service layer.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

const (
	// Percent-change thresholds for trend classification. Fixed constants,
	// kept for compatibility with historical results.
	risingThreshold  = 2.0
	fallingThreshold = -2.0

	// Predictions are clipped to this band around the current rate to stop
	// runaway extrapolation from short, noisy series.
	predictionBand = 0.15

	regressionMinPoints = 10
	regressionWindow    = 30
	tradingMinPoints    = 30
)

// TrendAnalysis computes descriptive statistics and a trend classification
// for the observations within [asOf-days, asOf]. The series need not be
// pre-sorted. Fewer than 2 points in the window returns nil: no opinion,
// not an error. The embedded prediction is always 7 days ahead and uses the
// full series, independent of the lookback window.
func TrendAnalysis(currency models.Currency, series []models.RateObservation, asOf time.Time, days int) *models.TrendResult {
	cutoff := asOf.AddDate(0, 0, -days)

	window := make([]models.RateObservation, 0, len(series))
	for _, obs := range series {
		if !obs.Date.Before(cutoff) && !obs.Date.After(asOf) {
			window = append(window, obs)
		}
	}
	if len(window) < 2 {
		return nil
	}
	sort.SliceStable(window, func(i, j int) bool { return window[i].Date.Before(window[j].Date) })

	currentRate := window[len(window)-1].Rate
	oldestRate := window[0].Rate
	changeAmount := currentRate - oldestRate
	changePercent := changeAmount / oldestRate * 100

	min, max, sum := window[0].Rate, window[0].Rate, 0.0
	for _, obs := range window {
		if obs.Rate < min {
			min = obs.Rate
		}
		if obs.Rate > max {
			max = obs.Rate
		}
		sum += obs.Rate
	}
	avg := sum / float64(len(window))

	trend := models.TrendStable
	switch {
	case changePercent > risingThreshold:
		trend = models.TrendRising
	case changePercent < fallingThreshold:
		trend = models.TrendFalling
	}

	variance := 0.0
	for _, obs := range window {
		d := obs.Rate - avg
		variance += d * d
	}
	volatility := math.Sqrt(variance / float64(len(window)))

	prediction := PredictRate(series, 7)

	return &models.TrendResult{
		Currency:      currency,
		CurrentRate:   currentRate,
		ChangeAmount:  changeAmount,
		ChangePercent: changePercent,
		Min:           min,
		Max:           max,
		Avg:           avg,
		Trend:         trend,
		Volatility:    volatility,
		PredictedRate: prediction.Rate,
		Confidence:    prediction.Confidence,
	}
}

// PredictRate fits an ordinary least-squares line over the last 30
// observations and extrapolates daysAhead past the end of the series.
// Confidence is the R-squared of the fit clamped to [0, 1]; a zero-variance
// series is a perfect fit and gets confidence 1. Series shorter than 10
// points fall back to the last known rate with zero confidence. The result
// is clipped to within 15% of the current rate and floored at zero.
func PredictRate(series []models.RateObservation, daysAhead int) models.Prediction {
	if len(series) == 0 {
		return models.Prediction{}
	}

	sorted := make([]models.RateObservation, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	currentRate := sorted[len(sorted)-1].Rate
	if len(sorted) < regressionMinPoints {
		return models.Prediction{Rate: currentRate, Confidence: 0}
	}

	if len(sorted) > regressionWindow {
		sorted = sorted[len(sorted)-regressionWindow:]
	}
	n := float64(len(sorted))

	var sumX, sumY, sumXY, sumXX float64
	for i, obs := range sorted {
		x := float64(i)
		sumX += x
		sumY += obs.Rate
		sumXY += x * obs.Rate
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	predicted := intercept + slope*(n+float64(daysAhead))

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, obs := range sorted {
		fit := intercept + slope*float64(i)
		ssRes += (obs.Rate - fit) * (obs.Rate - fit)
		ssTot += (obs.Rate - meanY) * (obs.Rate - meanY)
	}
	confidence := 1.0 // zero variance means the fit is exact
	if ssTot > 0 {
		confidence = 1 - ssRes/ssTot
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	upper := currentRate * (1 + predictionBand)
	lower := currentRate * (1 - predictionBand)
	if predicted > upper {
		predicted = upper
	}
	if predicted < lower {
		predicted = lower
	}
	if predicted < 0 {
		predicted = 0
	}

	return models.Prediction{Rate: predicted, Confidence: confidence}
}

// OptimalTradingTimes groups observations by day of week and ranks weekdays
// by mean rate. Needs at least 30 observations, else nil. Weekdays with no
// samples are excluded from both the stats and the ranking.
func OptimalTradingTimes(series []models.RateObservation) *models.TradingTimes {
	if len(series) < tradingMinPoints {
		return nil
	}

	var buckets [7][]float64
	for _, obs := range series {
		day := obs.Date.Weekday()
		buckets[day] = append(buckets[day], obs.Rate)
	}

	stats := make([]models.DayStat, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		rates := buckets[day]
		if len(rates) == 0 {
			continue
		}
		sum := 0.0
		for _, r := range rates {
			sum += r
		}
		mean := sum / float64(len(rates))
		variance := 0.0
		for _, r := range rates {
			variance += (r - mean) * (r - mean)
		}
		stats = append(stats, models.DayStat{
			Day:    day,
			Mean:   mean,
			StdDev: math.Sqrt(variance / float64(len(rates))),
			Count:  len(rates),
		})
	}

	buy, sell := stats[0], stats[0]
	for _, s := range stats[1:] {
		if s.Mean < buy.Mean {
			buy = s
		}
		if s.Mean > sell.Mean {
			sell = s
		}
	}

	return &models.TradingTimes{BuyDay: buy.Day, SellDay: sell.Day, DayStats: stats}
}
