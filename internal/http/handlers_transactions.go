package http

import "net/http"

type addExpenseRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	AccountID   int64  `json:"account_id"`
	Description string `json:"description"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.svcs.Transactions.AddExpense(r.Context(), amount, req.Category, req.AccountID, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

type addIncomeRequest struct {
	Amount      string `json:"amount"`
	AccountID   int64  `json:"account_id"`
	Description string `json:"description"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req addIncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.svcs.Transactions.AddIncome(r.Context(), amount, req.AccountID, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, toTransactionResponse(txn))
}
