package http

import "net/http"

type createAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initial_balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := parseAmountAllowZero("initial_balance", req.InitialBalance)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	account, err := s.svcs.Accounts.CreateAccount(r.Context(), req.Name, balance)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svcs.Accounts.ListAccounts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	account, err := s.svcs.Accounts.GetAccount(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}
