package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO fx.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM fx.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by primary key
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM fx.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateTransaction inserts a new transaction
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	query := `
		INSERT INTO fx.transactions
			(id, user_id, date, type, amount, from_currency, to_currency, exchange_rate, fees, category, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query,
		tx.ID, tx.UserID, tx.Date, tx.Type, tx.Amount,
		tx.FromCurrency, tx.ToCurrency, tx.ExchangeRate, tx.Fees, tx.Category, tx.Description).
		Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces the mutable fields of a transaction owned by the user
func (r *Repository) UpdateTransaction(tx *models.Transaction) error {
	query := `
		UPDATE fx.transactions
		SET date = $1, type = $2, amount = $3, from_currency = $4, to_currency = $5,
			exchange_rate = $6, fees = $7, category = $8, description = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10 AND user_id = $11
		RETURNING updated_at`
	err := r.db.QueryRow(query,
		tx.Date, tx.Type, tx.Amount, tx.FromCurrency, tx.ToCurrency,
		tx.ExchangeRate, tx.Fees, tx.Category, tx.Description, tx.ID, tx.UserID).
		Scan(&tx.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("transaction not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction owned by the user
func (r *Repository) DeleteTransaction(id string, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM fx.transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// TransactionsByUser lists all transactions for a user, oldest first
func (r *Repository) TransactionsByUser(userID int64) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, date, type, amount, from_currency, to_currency, exchange_rate, fees, category, description, created_at, updated_at
		FROM fx.transactions
		WHERE user_id = $1
		ORDER BY date ASC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Date, &tx.Type, &tx.Amount,
			&tx.FromCurrency, &tx.ToCurrency, &tx.ExchangeRate, &tx.Fees,
			&tx.Category, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// SaveObservation appends one rate observation
func (r *Repository) SaveObservation(obs models.RateObservation) error {
	_, err := r.db.Exec(`
		INSERT INTO fx.rate_observations (currency, date, rate)
		VALUES ($1, $2, $3)`,
		obs.Currency, obs.Date, obs.Rate)
	if err != nil {
		return fmt.Errorf("failed to save observation: %w", err)
	}
	return nil
}

// ObservationsByCurrency lists all observations for a currency, oldest first
func (r *Repository) ObservationsByCurrency(currency models.Currency) ([]models.RateObservation, error) {
	rows, err := r.db.Query(`
		SELECT currency, date, rate
		FROM fx.rate_observations
		WHERE currency = $1
		ORDER BY date ASC`, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer rows.Close()

	var series []models.RateObservation
	for rows.Next() {
		var obs models.RateObservation
		if err := rows.Scan(&obs.Currency, &obs.Date, &obs.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		series = append(series, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	return series, nil
}

// LatestObservation returns the newest observation for a currency
func (r *Repository) LatestObservation(currency models.Currency) (*models.RateObservation, error) {
	obs := &models.RateObservation{}
	err := r.db.QueryRow(`
		SELECT currency, date, rate
		FROM fx.rate_observations
		WHERE currency = $1
		ORDER BY date DESC
		LIMIT 1`, currency).
		Scan(&obs.Currency, &obs.Date, &obs.Rate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no observations for %s", currency)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find observation: %w", err)
	}
	return obs, nil
}

// CreateAlert inserts a new rate alert
func (r *Repository) CreateAlert(alert *models.RateAlert) error {
	query := `
		INSERT INTO fx.rate_alerts (id, user_id, currency, direction, threshold, enabled, triggered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query,
		alert.ID, alert.UserID, alert.Currency, alert.Direction, alert.Threshold, alert.Enabled, alert.Triggered).
		Scan(&alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// AlertsByUser lists a user's alerts, newest first
func (r *Repository) AlertsByUser(userID int64) ([]*models.RateAlert, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, currency, direction, threshold, enabled, triggered, created_at, updated_at
		FROM fx.rate_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// EnabledAlerts lists every enabled, not-yet-triggered alert across users
func (r *Repository) EnabledAlerts() ([]*models.RateAlert, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, currency, direction, threshold, enabled, triggered, created_at, updated_at
		FROM fx.rate_alerts
		WHERE enabled = TRUE AND triggered = FALSE`)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]*models.RateAlert, error) {
	var alerts []*models.RateAlert
	for rows.Next() {
		alert := &models.RateAlert{}
		if err := rows.Scan(&alert.ID, &alert.UserID, &alert.Currency, &alert.Direction,
			&alert.Threshold, &alert.Enabled, &alert.Triggered, &alert.CreatedAt, &alert.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertTriggered flips an alert to triggered so it stays silent until re-enabled
func (r *Repository) MarkAlertTriggered(id string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE fx.rate_alerts
		SET triggered = TRUE, updated_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return nil
}

// DeleteAlert removes an alert owned by the user
func (r *Repository) DeleteAlert(id string, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM fx.rate_alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert not found")
	}
	return nil
}
