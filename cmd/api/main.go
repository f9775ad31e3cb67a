package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/okonjo-dev/fx-tracker/internal/config"
	"github.com/okonjo-dev/fx-tracker/internal/handler"
	"github.com/okonjo-dev/fx-tracker/internal/integrations/ratefeed"
	"github.com/okonjo-dev/fx-tracker/internal/middleware"
	"github.com/okonjo-dev/fx-tracker/internal/repository"
	"github.com/okonjo-dev/fx-tracker/internal/service"
	"github.com/okonjo-dev/fx-tracker/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	feed := ratefeed.NewClient(cfg, logger)
	mail := email.NewSender(cfg, logger)
	svc := service.NewService(repo, feed, mail, logger, cfg)
	h := handler.NewHandler(svc)

	// Scheduled jobs: hourly rate refresh, which also evaluates alerts
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if err := svc.RefreshRates(); err != nil {
			logger.Errorf("Scheduled rate refresh failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule rate refresh: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/dashboard/stats", h.Stats).Methods("GET")
	authRouter.HandleFunc("/dashboard/analytics", h.Analytics).Methods("GET")
	authRouter.HandleFunc("/dashboard/monthly", h.Monthly).Methods("GET")
	authRouter.HandleFunc("/dashboard/performance", h.Performance).Methods("GET")
	authRouter.HandleFunc("/dashboard/predictive", h.Predictive).Methods("GET")
	authRouter.HandleFunc("/rates/{code}/trend", h.RateTrend).Methods("GET")
	authRouter.HandleFunc("/rates/{code}/prediction", h.RatePrediction).Methods("GET")
	authRouter.HandleFunc("/rates/{code}/trading-times", h.TradingTimes).Methods("GET")
	authRouter.HandleFunc("/alerts", h.CreateAlert).Methods("POST")
	authRouter.HandleFunc("/alerts", h.ListAlerts).Methods("GET")
	authRouter.HandleFunc("/alerts/{id}", h.DeleteAlert).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
