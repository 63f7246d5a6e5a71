package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	applog "finman/internal/log"
	"finman/internal/services"
	"finman/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finman_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	transactions := services.NewTransactionService(repo, nil)
	svcs := Services{
		Accounts:     services.NewAccountService(repo),
		Transactions: transactions,
		Goals:        services.NewGoalService(repo),
		Debts:        services.NewDebtService(repo, transactions),
		Recurring:    services.NewRecurringProcessor(repo, transactions),
		Reports:      services.NewReportingService(repo),
	}

	srv := NewServer(":0", applog.New(applog.DefaultConfig()), svcs)
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.rateLimiter.stop()
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestAccountEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"Checking","initial_balance":"100.00"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Balance      string `json:"balance"`
		BalanceCents int64  `json:"balance_cents"`
	}
	decodeBody(t, rr, &created)
	if created.Name != "Checking" || created.BalanceCents != 100_00 || created.Balance != "100.00" {
		t.Errorf("created = %+v, want Checking with 10000 cents", created)
	}

	rr = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/accounts/%d", created.ID), "")
	if rr.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/accounts", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rr.Code)
	}
	var list []json.RawMessage
	decodeBody(t, rr, &list)
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	t.Run("unknown account", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/accounts/999", "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"  "}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"X","surprise":true}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestExpenseAndReportFlow(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"Checking","initial_balance":"500.00"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create account status = %d", rr.Code)
	}
	var account struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &account)

	body := fmt.Sprintf(`{"amount":"30.50","category":"Groceries","account_id":%d,"description":"weekly shop"}`, account.ID)
	rr = doJSON(t, srv, http.MethodPost, "/api/transactions/expense", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expense status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var txn struct {
		Type     string `json:"type"`
		Category string `json:"category"`
		Amount   string `json:"amount"`
	}
	decodeBody(t, rr, &txn)
	if txn.Type != "Expense" || txn.Category != "Groceries" || txn.Amount != "30.50" {
		t.Errorf("transaction = %+v", txn)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/reports/spending?start_date=2000-01-01&end_date=2100-01-01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("report status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var report struct {
		Rows []struct {
			Category   string `json:"category"`
			TotalCents int64  `json:"total_cents"`
		} `json:"rows"`
	}
	decodeBody(t, rr, &report)
	if len(report.Rows) != 1 || report.Rows[0].Category != "Groceries" || report.Rows[0].TotalCents != 30_50 {
		t.Errorf("report rows = %+v, want one Groceries row of 3050 cents", report.Rows)
	}

	t.Run("inverted range rejected", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/reports/spending?start_date=2024-02-01&end_date=2024-01-01", "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("missing dates rejected", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodGet, "/api/reports/spending", "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestOverviewReflectsWrites(t *testing.T) {
	// The overview is cached, but any ledger write clears the cache so
	// the next read sees the new balance.
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"Checking","initial_balance":"100.00"}`)
	var account struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &account)

	rr = doJSON(t, srv, http.MethodGet, "/api/overview", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("overview status = %d", rr.Code)
	}
	var overview struct {
		TotalBalance string `json:"total_balance"`
	}
	decodeBody(t, rr, &overview)
	if overview.TotalBalance != "100.00" {
		t.Fatalf("TotalBalance = %q, want 100.00", overview.TotalBalance)
	}

	body := fmt.Sprintf(`{"amount":"40.00","account_id":%d,"description":"refund"}`, account.ID)
	if rr := doJSON(t, srv, http.MethodPost, "/api/transactions/income", body); rr.Code != http.StatusCreated {
		t.Fatalf("income status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/overview", "")
	decodeBody(t, rr, &overview)
	if overview.TotalBalance != "140.00" {
		t.Errorf("TotalBalance after income = %q, want 140.00", overview.TotalBalance)
	}
}

func TestGoalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/accounts", `{"name":"Checking","initial_balance":"1000.00"}`)
	var account struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &account)

	rr = doJSON(t, srv, http.MethodPost, "/api/goals", `{"name":"Vacation","budget":"500.00"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var goal struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &goal)

	body := fmt.Sprintf(`{"amount":"200.00","account_id":%d,"description":"saving"}`, account.ID)
	if rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/goals/%d/allocate", goal.ID), body); rr.Code != http.StatusCreated {
		t.Fatalf("allocate status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("details status = %d", rr.Code)
	}
	var details struct {
		Summary struct {
			ProgressPercentage string `json:"progress_percentage"`
		} `json:"summary"`
	}
	decodeBody(t, rr, &details)
	if details.Summary.ProgressPercentage != "40.00%" {
		t.Errorf("progress = %q, want 40.00%%", details.Summary.ProgressPercentage)
	}

	t.Run("allocation beyond balance", func(t *testing.T) {
		body := fmt.Sprintf(`{"amount":"100000.00","account_id":%d,"description":"too much"}`, account.ID)
		rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/goals/%d/allocate", goal.ID), body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rr.Code)
		}
	})

	t.Run("duplicate step conflicts", func(t *testing.T) {
		stepPath := fmt.Sprintf("/api/goals/%d/steps", goal.ID)
		if rr := doJSON(t, srv, http.MethodPost, stepPath, `{"description":"Book flights"}`); rr.Code != http.StatusCreated {
			t.Fatalf("add step status = %d", rr.Code)
		}
		rr := doJSON(t, srv, http.MethodPost, stepPath, `{"description":"book flights"}`)
		if rr.Code != http.StatusConflict {
			t.Errorf("duplicate step status = %d, want 409", rr.Code)
		}
	})

	t.Run("complete goal", func(t *testing.T) {
		rr := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/goals/%d/complete", goal.ID), "")
		if rr.Code != http.StatusOK {
			t.Fatalf("complete status = %d", rr.Code)
		}
		var completed struct {
			Status string `json:"status"`
		}
		decodeBody(t, rr, &completed)
		if completed.Status != "Completed" {
			t.Errorf("status = %q, want Completed", completed.Status)
		}
	})
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want the supplied value echoed back", got)
	}
}

func TestWriteRateLimit(t *testing.T) {
	srv := newTestServer(t)

	var last int
	for i := 0; i < 65; i++ {
		rr := doJSON(t, srv, http.MethodPost, "/api/accounts", fmt.Sprintf(`{"name":"Account %d"}`, i))
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", last)
	}

	// Reads are never rate limited.
	rr := doJSON(t, srv, http.MethodGet, "/api/accounts", "")
	if rr.Code != http.StatusOK {
		t.Errorf("read status during burst = %d, want 200", rr.Code)
	}
}
