package http

import "net/http"

type createDebtRequest struct {
	Name        string  `json:"name"`
	TotalAmount string  `json:"total_amount"`
	MonthlyEMI  *string `json:"monthly_emi"`
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	total, err := parseAmountAllowZero("total_amount", req.TotalAmount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	emi, err := parseOptionalAmount("monthly_emi", req.MonthlyEMI)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	debt, err := s.svcs.Debts.AddDebt(r.Context(), req.Name, total, emi)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, toDebtResponse(debt))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.svcs.Debts.ListDebts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		resp = append(resp, toDebtResponse(d))
	}
	respondJSON(w, http.StatusOK, resp)
}

type debtPaymentRequest struct {
	Amount string `json:"amount"`
	// AccountID, when set, posts a "Debt Payment" expense from that
	// account alongside the debt reduction.
	AccountID *int64 `json:"account_id"`
}

func (s *Server) handleDebtPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req debtPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var debt debtResponse
	if req.AccountID != nil {
		d, err := s.svcs.Debts.MakeManualPayment(r.Context(), id, *req.AccountID, amount)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		debt = toDebtResponse(d)
	} else {
		d, err := s.svcs.Debts.MakePayment(r.Context(), id, amount)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		debt = toDebtResponse(d)
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusOK, debt)
}

type updateDebtRequest struct {
	Name        string  `json:"name"`
	TotalAmount *string `json:"total_amount"`
	MonthlyEMI  *string `json:"monthly_emi"`
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req updateDebtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	total, err := parseOptionalAmount("total_amount", req.TotalAmount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	emi, err := parseOptionalAmount("monthly_emi", req.MonthlyEMI)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	debt, err := s.svcs.Debts.UpdateDebtDetails(r.Context(), id, req.Name, total, emi)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusOK, toDebtResponse(debt))
}
