package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

// CalculateBalances sorts the transactions ascending by date (stable, so
// same-date transactions keep their relative input order) and annotates each
// with the running balance: received adds, sent subtracts. The same slice is
// returned, still ascending; idempotent under re-application.
func CalculateBalances(txs []*models.Transaction) []*models.Transaction {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	balance := 0.0
	for _, tx := range txs {
		if tx.Type == models.TypeReceived {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
		tx.Balance = balance
	}
	return txs
}

// FinancialStats sums amounts by type and describes the most recent
// transaction. It sorts internally rather than assuming any input order.
func FinancialStats(txs []*models.Transaction) models.FinancialStats {
	var stats models.FinancialStats
	for _, tx := range txs {
		switch tx.Type {
		case models.TypeSent:
			stats.TotalSent += tx.Amount
		case models.TypeReceived:
			stats.TotalReceived += tx.Amount
		}
	}
	stats.NetBalance = stats.TotalReceived - stats.TotalSent

	if len(txs) > 0 {
		newest := txs[0]
		for _, tx := range txs[1:] {
			if tx.Date.After(newest.Date) {
				newest = tx
			}
		}
		stats.RecentActivity = fmt.Sprintf("%s %.2f %s on %s",
			newest.Type, newest.Amount, newest.FromCurrency, newest.Date.Format("2006-01-02"))
	}
	return stats
}

// AnalyticsData computes aggregate transaction analytics. Nil on an empty
// ledger. Frequency is transactions per calendar month over the inclusive
// month span between the earliest and latest dates. GrowthRate compares the
// net flow of the last two calendar months and is 0 when the previous month
// nets to zero or fewer than two months exist.
func AnalyticsData(txs []*models.Transaction) *models.AnalyticsData {
	if len(txs) == 0 {
		return nil
	}

	sum, largest := 0.0, txs[0].Amount
	earliest, latest := txs[0].Date, txs[0].Date
	for _, tx := range txs {
		sum += tx.Amount
		if tx.Amount > largest {
			largest = tx.Amount
		}
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	monthSpan := (latest.Year()-earliest.Year())*12 + int(latest.Month()) - int(earliest.Month()) + 1
	if monthSpan < 1 {
		monthSpan = 1
	}

	return &models.AnalyticsData{
		AvgTransaction:     sum / float64(len(txs)),
		LargestTransaction: largest,
		Frequency:          float64(len(txs)) / float64(monthSpan),
		GrowthRate:         growthRate(MonthlyTotals(txs)),
	}
}

func growthRate(monthly map[string]models.MonthlyTotal) float64 {
	if len(monthly) < 2 {
		return 0
	}
	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	previous := monthly[keys[len(keys)-2]].Net
	latest := monthly[keys[len(keys)-1]].Net
	if previous == 0 {
		return 0
	}
	return (latest - previous) / math.Abs(previous) * 100
}

// MonthlyTotals groups transactions by calendar month of their date. Keys
// are zero-padded "YYYY-MM" strings so lexicographic order is chronological.
func MonthlyTotals(txs []*models.Transaction) map[string]models.MonthlyTotal {
	totals := make(map[string]models.MonthlyTotal)
	for _, tx := range txs {
		key := tx.Date.Format("2006-01")
		t := totals[key]
		switch tx.Type {
		case models.TypeSent:
			t.Sent += tx.Amount
		case models.TypeReceived:
			t.Received += tx.Amount
		}
		t.Net = t.Received - t.Sent
		totals[key] = t
	}
	return totals
}

// CurrencyPerformance computes, for each foreign currency traded against the
// home currency, the percent change between its oldest and newest observed
// exchange rate. Rates are normalized to foreign-per-home before comparison,
// inverting transactions recorded in the home-per-foreign direction.
// Currencies with fewer than two observations are absent from the map, and
// cross rates with no home-currency leg are skipped.
func CurrencyPerformance(txs []*models.Transaction, home models.Currency) map[models.Currency]float64 {
	observed := make(map[models.Currency][]models.RateObservation)
	for _, tx := range txs {
		if tx.FromCurrency == tx.ToCurrency || tx.ExchangeRate == 0 {
			continue
		}
		var foreign models.Currency
		var rate float64
		switch {
		case tx.FromCurrency == home:
			foreign = tx.ToCurrency
			rate = tx.ExchangeRate
		case tx.ToCurrency == home:
			foreign = tx.FromCurrency
			rate = 1 / tx.ExchangeRate
		default:
			continue
		}
		observed[foreign] = append(observed[foreign], models.RateObservation{
			Currency: foreign,
			Date:     tx.Date,
			Rate:     rate,
		})
	}

	performance := make(map[models.Currency]float64)
	for currency, obs := range observed {
		if len(obs) < 2 {
			continue
		}
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
		oldest := obs[0].Rate
		newest := obs[len(obs)-1].Rate
		performance[currency] = (newest - oldest) / oldest * 100
	}
	return performance
}
