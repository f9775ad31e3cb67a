package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

func tx(date string, typ models.TransactionType, amount float64) *models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &models.Transaction{
		ID:           date + string(typ),
		Date:         d,
		Type:         typ,
		Amount:       amount,
		FromCurrency: "NGN",
		ToCurrency:   "NGN",
		ExchangeRate: 1,
	}
}

func TestCalculateBalances(t *testing.T) {
	t.Run("accumulates signed amounts oldest first", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-15", models.TypeReceived, 150),
			tx("2024-01-01", models.TypeSent, 100),
		}
		result := CalculateBalances(txs)
		require.Len(t, result, 2)
		assert.Equal(t, models.TypeSent, result[0].Type)
		assert.InDelta(t, -100, result[0].Balance, 1e-9)
		assert.InDelta(t, 50, result[1].Balance, 1e-9)
	})

	t.Run("idempotent under re-application", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-01", models.TypeSent, 100),
			tx("2024-01-15", models.TypeReceived, 150),
			tx("2024-02-01", models.TypeReceived, 75),
		}
		first := CalculateBalances(txs)
		balances := make([]float64, len(first))
		for i, tr := range first {
			balances[i] = tr.Balance
		}
		second := CalculateBalances(first)
		for i, tr := range second {
			assert.InDelta(t, balances[i], tr.Balance, 1e-9)
		}
	})

	t.Run("final balance matches net balance", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-01", models.TypeSent, 100),
			tx("2024-01-15", models.TypeReceived, 150),
			tx("2024-03-10", models.TypeSent, 30),
		}
		result := CalculateBalances(txs)
		stats := FinancialStats(txs)
		assert.InDelta(t, stats.NetBalance, result[len(result)-1].Balance, 1e-9)
	})

	t.Run("same-date transactions keep input order", func(t *testing.T) {
		a := tx("2024-01-01", models.TypeSent, 10)
		b := tx("2024-01-01", models.TypeReceived, 40)
		result := CalculateBalances([]*models.Transaction{a, b})
		assert.Same(t, a, result[0])
		assert.InDelta(t, -10, result[0].Balance, 1e-9)
		assert.InDelta(t, 30, result[1].Balance, 1e-9)
	})
}

func TestFinancialStats(t *testing.T) {
	t.Run("sums by type", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-01", models.TypeSent, 100),
			tx("2024-01-15", models.TypeReceived, 150),
		}
		stats := FinancialStats(txs)
		assert.InDelta(t, 100, stats.TotalSent, 1e-9)
		assert.InDelta(t, 150, stats.TotalReceived, 1e-9)
		assert.InDelta(t, 50, stats.NetBalance, 1e-9)
	})

	t.Run("recent activity finds the newest regardless of order", func(t *testing.T) {
		newest := tx("2024-03-05", models.TypeReceived, 200)
		newest.FromCurrency = "USD"
		txs := []*models.Transaction{
			newest,
			tx("2024-01-01", models.TypeSent, 100),
			tx("2024-02-10", models.TypeSent, 50),
		}
		stats := FinancialStats(txs)
		assert.Equal(t, "received 200.00 USD on 2024-03-05", stats.RecentActivity)
	})

	t.Run("empty ledger", func(t *testing.T) {
		stats := FinancialStats(nil)
		assert.Zero(t, stats.NetBalance)
		assert.Empty(t, stats.RecentActivity)
	})
}

func TestMonthlyTotals(t *testing.T) {
	txs := []*models.Transaction{
		tx("2024-01-01", models.TypeSent, 100),
		tx("2024-01-15", models.TypeReceived, 150),
		tx("2024-02-03", models.TypeReceived, 80),
		tx("2024-02-20", models.TypeSent, 20),
	}

	totals := MonthlyTotals(txs)
	require.Len(t, totals, 2)
	assert.InDelta(t, 100, totals["2024-01"].Sent, 1e-9)
	assert.InDelta(t, 150, totals["2024-01"].Received, 1e-9)
	assert.InDelta(t, 50, totals["2024-01"].Net, 1e-9)
	assert.InDelta(t, 60, totals["2024-02"].Net, 1e-9)

	t.Run("buckets sum to the ledger totals", func(t *testing.T) {
		stats := FinancialStats(txs)
		var sent, received float64
		for _, total := range totals {
			sent += total.Sent
			received += total.Received
		}
		assert.InDelta(t, stats.TotalSent, sent, 1e-9)
		assert.InDelta(t, stats.TotalReceived, received, 1e-9)
	})
}

func TestAnalyticsData(t *testing.T) {
	t.Run("empty ledger returns nil", func(t *testing.T) {
		assert.Nil(t, AnalyticsData(nil))
	})

	t.Run("averages and month span", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-05", models.TypeReceived, 100),
			tx("2024-02-10", models.TypeReceived, 300),
			tx("2024-03-01", models.TypeSent, 50),
			tx("2024-03-20", models.TypeReceived, 150),
		}
		data := AnalyticsData(txs)
		require.NotNil(t, data)
		assert.InDelta(t, 150, data.AvgTransaction, 1e-9)
		assert.InDelta(t, 300, data.LargestTransaction, 1e-9)
		// Jan..Mar inclusive is a three month span.
		assert.InDelta(t, 4.0/3.0, data.Frequency, 1e-9)
	})

	t.Run("growth rate compares the last two monthly nets", func(t *testing.T) {
		txs := []*models.Transaction{
			tx("2024-01-05", models.TypeReceived, 100),
			tx("2024-02-10", models.TypeReceived, 50),
		}
		data := AnalyticsData(txs)
		require.NotNil(t, data)
		assert.InDelta(t, -50, data.GrowthRate, 1e-9)
	})

	t.Run("growth rate degenerate cases are zero", func(t *testing.T) {
		oneMonth := AnalyticsData([]*models.Transaction{tx("2024-01-05", models.TypeReceived, 100)})
		require.NotNil(t, oneMonth)
		assert.Zero(t, oneMonth.GrowthRate)

		zeroPrevious := AnalyticsData([]*models.Transaction{
			tx("2024-01-05", models.TypeReceived, 100),
			tx("2024-01-05", models.TypeSent, 100),
			tx("2024-02-10", models.TypeReceived, 50),
		})
		require.NotNil(t, zeroPrevious)
		assert.Zero(t, zeroPrevious.GrowthRate)
	})
}

func TestCurrencyPerformance(t *testing.T) {
	fx := func(date string, from, to models.Currency, rate float64) *models.Transaction {
		tr := tx(date, models.TypeSent, 100)
		tr.FromCurrency = from
		tr.ToCurrency = to
		tr.ExchangeRate = rate
		return tr
	}

	t.Run("normalizes both quote directions", func(t *testing.T) {
		txs := []*models.Transaction{
			fx("2024-01-01", "NGN", "USD", 0.0012),
			// Recorded the other way round: 800 NGN per USD is 0.00125 USD per NGN.
			fx("2024-02-01", "USD", "NGN", 800),
		}
		perf := CurrencyPerformance(txs, "NGN")
		require.Contains(t, perf, models.Currency("USD"))
		assert.InDelta(t, (0.00125-0.0012)/0.0012*100, perf["USD"], 1e-9)
	})

	t.Run("single observation currencies are absent", func(t *testing.T) {
		txs := []*models.Transaction{
			fx("2024-01-01", "NGN", "USD", 0.0012),
			fx("2024-02-01", "NGN", "USD", 0.0013),
			fx("2024-01-15", "NGN", "EUR", 0.0011),
		}
		perf := CurrencyPerformance(txs, "NGN")
		assert.Contains(t, perf, models.Currency("USD"))
		assert.NotContains(t, perf, models.Currency("EUR"))
	})

	t.Run("same-currency and no-home-leg pairs are skipped", func(t *testing.T) {
		txs := []*models.Transaction{
			fx("2024-01-01", "NGN", "NGN", 1),
			fx("2024-01-02", "USD", "EUR", 0.9),
			fx("2024-01-03", "USD", "EUR", 0.95),
		}
		assert.Empty(t, CurrencyPerformance(txs, "NGN"))
	})
}
