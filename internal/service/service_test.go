package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/okonjo-dev/fx-tracker/internal/config"
	"github.com/okonjo-dev/fx-tracker/internal/models"
)

func newTestService() *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(nil, nil, nil, log, &config.Config{HomeCurrency: "NGN", JWTSecret: "test"})
}

func validTransaction() *models.Transaction {
	return &models.Transaction{
		Type:         models.TypeSent,
		Amount:       100,
		FromCurrency: "NGN",
		ToCurrency:   "USD",
		ExchangeRate: 0.0012,
	}
}

func TestValidateTransaction(t *testing.T) {
	svc := newTestService()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, svc.ValidateTransaction(validTransaction()))
	})

	cases := []struct {
		name   string
		mutate func(*models.Transaction)
	}{
		{"unknown type", func(tx *models.Transaction) { tx.Type = "transfer" }},
		{"zero amount", func(tx *models.Transaction) { tx.Amount = 0 }},
		{"negative amount", func(tx *models.Transaction) { tx.Amount = -5 }},
		{"zero exchange rate", func(tx *models.Transaction) { tx.ExchangeRate = 0 }},
		{"negative fees", func(tx *models.Transaction) { tx.Fees = -1 }},
		{"lowercase currency", func(tx *models.Transaction) { tx.FromCurrency = "ngn" }},
		{"short currency", func(tx *models.Transaction) { tx.ToCurrency = "US" }},
		{"same currency with non-unit rate", func(tx *models.Transaction) {
			tx.ToCurrency = "NGN"
			tx.ExchangeRate = 2
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(tx)
			assert.Error(t, svc.ValidateTransaction(tx))
		})
	}

	t.Run("same currency with unit rate", func(t *testing.T) {
		tx := validTransaction()
		tx.ToCurrency = "NGN"
		tx.ExchangeRate = 1
		assert.NoError(t, svc.ValidateTransaction(tx))
	})
}

func TestAddTransactionRequiresAuthenticatedUser(t *testing.T) {
	svc := newTestService()

	err := svc.AddTransaction(context.Background(), validTransaction())
	assert.ErrorContains(t, err, "user ID not found")

	badCtx := context.WithValue(context.Background(), "userID", "not-a-number")
	err = svc.AddTransaction(badCtx, validTransaction())
	assert.ErrorContains(t, err, "invalid user ID")
}
