// Package http exposes the JSON API over the service layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finman/internal/cache"
	"finman/internal/core"
	applog "finman/internal/log"
	"finman/internal/services"
)

// Services bundles the injected service layer.
type Services struct {
	Accounts     *services.AccountService
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Debts        *services.DebtService
	Recurring    *services.RecurringProcessor
	Reports      *services.ReportingService
}

type Server struct {
	http.Server
	svcs        Services
	logger      *applog.Logger
	structured  *applog.StructuredLogger
	rateLimiter *rateLimiter

	// Report responses are cached briefly; any ledger write clears both
	// caches so totals never lag behind a posting.
	reportCache   *cache.LRUCache[core.SpendingSummary]
	overviewCache *cache.LRUCache[core.Overview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, logger *applog.Logger, svcs Services) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       90 * time.Second,
		},
		svcs:          svcs,
		logger:        logger,
		structured:    applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),
		rateLimiter:   newRateLimiter(),
		reportCache:   cache.NewLRUCache[core.SpendingSummary](100, 5*time.Minute),
		overviewCache: cache.NewLRUCache[core.Overview](10, 1*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)

	mux.HandleFunc("POST /api/transactions/expense", s.handleAddExpense)
	mux.HandleFunc("POST /api/transactions/income", s.handleAddIncome)

	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGoalDetails)
	mux.HandleFunc("PATCH /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("POST /api/goals/{id}/complete", s.handleCompleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/allocate", s.handleAllocateToGoal)
	mux.HandleFunc("POST /api/goals/{id}/steps", s.handleAddStep)
	mux.HandleFunc("POST /api/steps/{id}/complete", s.handleCompleteStep)

	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts/{id}/payments", s.handleDebtPayment)
	mux.HandleFunc("PATCH /api/debts/{id}", s.handleUpdateDebt)

	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring/process", s.handleProcessRecurring)

	mux.HandleFunc("GET /api/reports/spending", s.handleSpendingReport)
	mux.HandleFunc("GET /api/overview", s.handleOverview)

	handler := applog.Middleware(logger)(applog.RequestIDMiddleware()(s.withRequestLogging(mux)))
	s.Server.Handler = handler

	return s
}

// withRequestLogging logs request lifecycle, applies rate limiting to
// writes, and sets baseline response headers.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		s.structured.LogHTTPStart(r.Context(), r, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			w.Header().Set("Retry-After", "60")
			respondError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.structured.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateReportCaches clears the cached report responses. Called
// after every successful ledger write.
func (s *Server) invalidateReportCaches() {
	s.reportCache.Clear()
	s.overviewCache.Clear()
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
