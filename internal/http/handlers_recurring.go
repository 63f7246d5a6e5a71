package http

import (
	"net/http"

	"finman/internal/core"
)

type createRecurringRequest struct {
	AccountID   int64   `json:"account_id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	Frequency   string  `json:"frequency"`
	StartDate   string  `json:"start_date"`
	NextDueDate *string `json:"next_due_date"`
	DebtID      *int64  `json:"debt_id"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rt := core.RecurringTransaction{
		AccountID:   req.AccountID,
		Description: req.Description,
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Frequency:   core.Monthly,
		StartDate:   startDate,
		DebtID:      req.DebtID,
	}
	if req.Frequency != "" {
		rt.Frequency = core.Frequency(req.Frequency)
	}
	if req.NextDueDate != nil {
		due, err := parseDateField("next_due_date", *req.NextDueDate)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		rt.NextDueDate = due
	}

	created, err := s.svcs.Recurring.CreateRecurringTransaction(r.Context(), rt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svcs.Recurring.ListRecurringTransactions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := make([]recurringResponse, 0, len(entries))
	for _, rt := range entries {
		resp = append(resp, toRecurringResponse(rt))
	}
	respondJSON(w, http.StatusOK, resp)
}

type processRecurringRequest struct {
	// Date defaults to today when absent. Mainly useful in tests and
	// for catch-up runs.
	Date *string `json:"date"`
}

type processRecurringResponse struct {
	Processed int `json:"processed"`
}

func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	today := core.Today()

	if r.ContentLength > 0 {
		var req processRecurringRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if req.Date != nil {
			d, err := parseDateField("date", *req.Date)
			if err != nil {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			today = d
		}
	}

	processed, err := s.svcs.Recurring.ProcessDueTransactions(r.Context(), today)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if processed > 0 {
		s.invalidateReportCaches()
	}
	respondJSON(w, http.StatusOK, processRecurringResponse{Processed: processed})
}
