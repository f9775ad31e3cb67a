package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okonjo-dev/fx-tracker/internal/models"
	"github.com/okonjo-dev/fx-tracker/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "invalid credentials"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "must"), strings.Contains(msg, "required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateTransaction adds a transaction to the user's ledger
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.svc.AddTransaction(r.Context(), &tx); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// UpdateTransaction replaces the mutable fields of a transaction
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	tx.ID = mux.Vars(r)["id"]
	if err := h.svc.UpdateTransaction(r.Context(), &tx); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// DeleteTransaction removes a transaction
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions returns the ledger oldest-first with running balances
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

// Stats returns ledger-wide totals
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Analytics returns aggregate analytics; an empty ledger yields 204
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Analytics(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Monthly returns per-calendar-month totals
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Monthly(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// Performance returns per-currency rate performance
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.svc.Performance(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

// Predictive returns the 3-month balance projection
func (h *Handler) Predictive(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Predictive(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// RateTrend returns trend statistics for a currency; 204 when there is not
// enough data in the window to hold an opinion
func (h *Handler) RateTrend(w http.ResponseWriter, r *http.Request) {
	currency := models.Currency(mux.Vars(r)["code"])
	trend, err := h.svc.RateTrend(currency, queryInt(r, "days", 30))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	if trend == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, trend)
}

// RatePrediction returns the extrapolated rate for a currency
func (h *Handler) RatePrediction(w http.ResponseWriter, r *http.Request) {
	currency := models.Currency(mux.Vars(r)["code"])
	prediction, err := h.svc.RatePrediction(currency, queryInt(r, "days_ahead", 7))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

// TradingTimes returns day-of-week rate statistics; 204 under 30 observations
func (h *Handler) TradingTimes(w http.ResponseWriter, r *http.Request) {
	currency := models.Currency(mux.Vars(r)["code"])
	times, err := h.svc.TradingTimes(currency)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	if times == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, times)
}

// CreateAlert registers a rate threshold alert
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert models.RateAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.svc.CreateAlert(r.Context(), &alert); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}

// ListAlerts returns the user's alerts
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListAlerts(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	if alerts == nil {
		alerts = []*models.RateAlert{}
	}
	respondJSON(w, http.StatusOK, alerts)
}

// DeleteAlert removes an alert
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAlert(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
