package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/okonjo-dev/fx-tracker/internal/analysis"
	"github.com/okonjo-dev/fx-tracker/internal/config"
	"github.com/okonjo-dev/fx-tracker/internal/integrations/ratefeed"
	"github.com/okonjo-dev/fx-tracker/internal/models"
	"github.com/okonjo-dev/fx-tracker/internal/repository"
	"github.com/okonjo-dev/fx-tracker/internal/utils/email"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	feed   *ratefeed.Client
	mail   *email.Sender
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, feed *ratefeed.Client, mail *email.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, feed: feed, mail: mail, log: log, config: cfg}
}

func (s *Service) home() models.Currency {
	return models.Currency(s.config.HomeCurrency)
}

// Register creates a new user with hashed password
func (s *Service) Register(username, emailAddr, password string) (*models.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	if err := s.mail.SendWelcome(user.Email, user.Username); err != nil {
		// Registration already succeeded; the mail is best effort.
		s.log.Warnf("welcome email failed for %s: %v", user.Email, err)
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(emailAddr, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(emailAddr)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// ValidateTransaction enforces the record invariants before anything reaches
// the store; the analysis package itself never validates.
func (s *Service) ValidateTransaction(tx *models.Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("type must be %q or %q", models.TypeSent, models.TypeReceived)
	}
	if tx.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if tx.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive")
	}
	if tx.Fees < 0 {
		return fmt.Errorf("fees must not be negative")
	}
	if !tx.FromCurrency.Valid() || !tx.ToCurrency.Valid() {
		return fmt.Errorf("currency codes must be 3 uppercase letters")
	}
	if tx.FromCurrency == tx.ToCurrency && tx.ExchangeRate != 1 {
		return fmt.Errorf("same-currency transactions must have exchange rate 1")
	}
	return nil
}

// AddTransaction validates and stores a new transaction for the authenticated user
func (s *Service) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.ValidateTransaction(tx); err != nil {
		return err
	}

	tx.ID = uuid.NewString()
	tx.UserID = userID
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	if err := s.repo.CreateTransaction(tx); err != nil {
		return err
	}
	s.log.Infof("Transaction %s added for user %d", tx.ID, userID)
	return nil
}

// UpdateTransaction replaces the mutable fields of one of the user's transactions
func (s *Service) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if tx.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if err := s.ValidateTransaction(tx); err != nil {
		return err
	}

	tx.UserID = userID
	if err := s.repo.UpdateTransaction(tx); err != nil {
		return err
	}
	s.log.Infof("Transaction %s updated for user %d", tx.ID, userID)
	return nil
}

// DeleteTransaction removes one of the user's transactions
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(id, userID); err != nil {
		return err
	}
	s.log.Infof("Transaction %s deleted for user %d", id, userID)
	return nil
}

// ListTransactions returns the user's ledger oldest-first with running balances
func (s *Service) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.CalculateBalances(txs), nil
}

func (s *Service) userTransactions(ctx context.Context) ([]*models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.TransactionsByUser(userID)
}

// Stats returns ledger-wide totals for the authenticated user
func (s *Service) Stats(ctx context.Context) (models.FinancialStats, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return models.FinancialStats{}, err
	}
	return analysis.FinancialStats(txs), nil
}

// Analytics returns aggregate transaction analytics; nil data means an empty ledger
func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsData, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.AnalyticsData(txs), nil
}

// Monthly returns per-calendar-month totals for the authenticated user
func (s *Service) Monthly(ctx context.Context) (map[string]models.MonthlyTotal, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.MonthlyTotals(txs), nil
}

// Performance returns per-currency rate performance derived from the user's
// cross-currency transactions
func (s *Service) Performance(ctx context.Context) (map[models.Currency]float64, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.CurrencyPerformance(txs, s.home()), nil
}

// Predictive returns the 3-month balance projection for the authenticated user
func (s *Service) Predictive(ctx context.Context) (models.PredictiveData, error) {
	txs, err := s.userTransactions(ctx)
	if err != nil {
		return models.PredictiveData{}, err
	}
	return analysis.PredictiveData(txs), nil
}

// RateTrend computes trend statistics for a currency over a lookback window.
// A nil result means fewer than two observations in the window.
func (s *Service) RateTrend(currency models.Currency, days int) (*models.TrendResult, error) {
	series, err := s.repo.ObservationsByCurrency(currency)
	if err != nil {
		return nil, err
	}
	return analysis.TrendAnalysis(currency, series, time.Now(), days), nil
}

// RatePrediction extrapolates the currency's rate daysAhead into the future
func (s *Service) RatePrediction(currency models.Currency, daysAhead int) (models.Prediction, error) {
	series, err := s.repo.ObservationsByCurrency(currency)
	if err != nil {
		return models.Prediction{}, err
	}
	return analysis.PredictRate(series, daysAhead), nil
}

// TradingTimes ranks weekdays for a currency; nil means under 30 observations
func (s *Service) TradingTimes(currency models.Currency) (*models.TradingTimes, error) {
	series, err := s.repo.ObservationsByCurrency(currency)
	if err != nil {
		return nil, err
	}
	return analysis.OptimalTradingTimes(series), nil
}

// CreateAlert validates and stores a rate threshold alert
func (s *Service) CreateAlert(ctx context.Context, alert *models.RateAlert) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if !alert.Currency.Valid() {
		return fmt.Errorf("currency code must be 3 uppercase letters")
	}
	if !alert.Direction.Valid() {
		return fmt.Errorf("direction must be %q or %q", models.AlertAbove, models.AlertBelow)
	}
	if alert.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive")
	}

	alert.ID = uuid.NewString()
	alert.UserID = userID
	alert.Enabled = true
	alert.Triggered = false

	if err := s.repo.CreateAlert(alert); err != nil {
		return err
	}
	s.log.Infof("Alert %s created for user %d: %s %s %.4f", alert.ID, userID, alert.Currency, alert.Direction, alert.Threshold)
	return nil
}

// ListAlerts returns the user's alerts
func (s *Service) ListAlerts(ctx context.Context) ([]*models.RateAlert, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.AlertsByUser(userID)
}

// DeleteAlert removes one of the user's alerts
func (s *Service) DeleteAlert(ctx context.Context, id string) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteAlert(id, userID)
}

// RefreshRates pulls the daily feed, stores the observations and evaluates
// alerts against the fresh data. Run from cron; a failed fetch leaves the
// previous observations current until the next tick.
func (s *Service) RefreshRates() error {
	observations, err := s.feed.FetchDaily()
	if err != nil {
		return fmt.Errorf("rate refresh failed: %w", err)
	}

	for _, obs := range observations {
		if err := s.repo.SaveObservation(obs); err != nil {
			return err
		}
	}
	s.log.Infof("Stored %d rate observations", len(observations))

	return s.EvaluateAlerts()
}

// EvaluateAlerts compares every enabled alert against the latest observation
// for its currency, mailing the owner and marking the alert triggered on a
// threshold crossing. One bad alert does not stop the rest.
func (s *Service) EvaluateAlerts() error {
	alerts, err := s.repo.EnabledAlerts()
	if err != nil {
		return err
	}

	for _, alert := range alerts {
		latest, err := s.repo.LatestObservation(alert.Currency)
		if err != nil {
			s.log.Warnf("alert %s: %v", alert.ID, err)
			continue
		}

		crossed := (alert.Direction == models.AlertAbove && latest.Rate > alert.Threshold) ||
			(alert.Direction == models.AlertBelow && latest.Rate < alert.Threshold)
		if !crossed {
			continue
		}

		user, err := s.repo.FindUserByID(alert.UserID)
		if err != nil {
			s.log.Warnf("alert %s: %v", alert.ID, err)
			continue
		}
		if err := s.mail.SendRateAlert(user.Email, user.Username, alert, latest.Rate); err != nil {
			s.log.Warnf("alert %s: %v", alert.ID, err)
			continue
		}
		if err := s.repo.MarkAlertTriggered(alert.ID, time.Now()); err != nil {
			s.log.Warnf("alert %s: %v", alert.ID, err)
		}
	}
	return nil
}
