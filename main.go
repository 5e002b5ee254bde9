package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/hosteltracker/backend/src/config"
	"github.com/username/hosteltracker/backend/src/database"
	"github.com/username/hosteltracker/backend/src/handlers"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/security"
	"github.com/username/hosteltracker/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.AllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Hosteltracker backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	revenueService := services.NewRevenueService(reportCache)
	expenseService := services.NewExpenseService(reportCache)
	reportService := services.NewReportService(revenueService, expenseService, reportCache)
	scheduler := services.NewReportScheduler(reportService, emailService)

	userHandler := handlers.NewUserHandler(authService)
	csrfHandler := handlers.NewCSRFHandler(config.Cfg.CSRFAuthKey)
	revenueHandler := handlers.NewRevenueHandler(revenueService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	reportHandler := handlers.NewReportHandler(reportService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public GET routes (no CSRF needed for these GETs)
	apiRouter.HandleFunc("GET /api/auth/csrf", csrfHandler.GetCSRFToken)

	// Auth actions router - POST routes generally need CSRF
	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))
	authActionRouter.HandleFunc("GET /me", userHandler.AuthMiddleware(userHandler.GetCurrentUserHandler))

	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", csrfHandler.Middleware(authActionRouter)))

	// CSRF and Auth middleware for protected API routes
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfHandler.Middleware(http.HandlerFunc(userHandler.AuthMiddleware(handler)))
	}

	apiRouter.Handle("POST /api/revenue", applyCsrfAndAuth(revenueHandler.CreateRevenueHandler))
	apiRouter.Handle("GET /api/revenue", applyCsrfAndAuth(revenueHandler.ListRevenuesHandler))
	apiRouter.Handle("GET /api/revenue/export", applyCsrfAndAuth(revenueHandler.ExportRevenuesHandler))
	apiRouter.Handle("GET /api/revenue/export-csv", applyCsrfAndAuth(revenueHandler.ExportRevenuesCSVHandler))
	apiRouter.Handle("GET /api/revenue/{id}", applyCsrfAndAuth(revenueHandler.GetRevenueHandler))
	apiRouter.Handle("PUT /api/revenue/{id}", applyCsrfAndAuth(revenueHandler.UpdateRevenueHandler))
	apiRouter.Handle("DELETE /api/revenue/{id}", applyCsrfAndAuth(revenueHandler.DeleteRevenueHandler))

	apiRouter.Handle("POST /api/expenses", applyCsrfAndAuth(expenseHandler.CreateExpenseHandler))
	apiRouter.Handle("GET /api/expenses", applyCsrfAndAuth(expenseHandler.ListExpensesHandler))
	apiRouter.Handle("GET /api/expenses/categories", applyCsrfAndAuth(expenseHandler.ListCategoriesHandler))
	apiRouter.Handle("GET /api/expenses/export", applyCsrfAndAuth(expenseHandler.ExportExpensesHandler))
	apiRouter.Handle("GET /api/expenses/export-csv", applyCsrfAndAuth(expenseHandler.ExportExpensesCSVHandler))
	apiRouter.Handle("GET /api/expenses/{id}", applyCsrfAndAuth(expenseHandler.GetExpenseHandler))
	apiRouter.Handle("PUT /api/expenses/{id}", applyCsrfAndAuth(expenseHandler.UpdateExpenseHandler))
	apiRouter.Handle("DELETE /api/expenses/{id}", applyCsrfAndAuth(expenseHandler.DeleteExpenseHandler))

	apiRouter.Handle("GET /api/accounts", applyCsrfAndAuth(reportHandler.ListAccountsHandler))
	apiRouter.Handle("GET /api/reports/monthly-summary", applyCsrfAndAuth(reportHandler.GetMonthlySummaryHandler))
	apiRouter.Handle("GET /api/reports/daily", applyCsrfAndAuth(reportHandler.GetDailyReportsHandler))
	apiRouter.Handle("GET /api/reports/range-summary", applyCsrfAndAuth(reportHandler.GetRangeSummaryHandler))
	apiRouter.Handle("GET /api/reports/export", applyCsrfAndAuth(reportHandler.ExportMonthlyReportHandler))
	apiRouter.Handle("GET /api/reports/export-csv", applyCsrfAndAuth(reportHandler.ExportMonthlyReportCSVHandler))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Hosteltracker Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.Cfg.ReportMailEnabled {
		go scheduler.Start(ctx)
	} else {
		logger.L.Info("Monthly report mail disabled by configuration")
	}

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
