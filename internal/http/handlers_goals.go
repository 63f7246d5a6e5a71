package http

import "net/http"

type createGoalRequest struct {
	Name   string  `json:"name"`
	Budget *string `json:"budget"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := parseOptionalAmount("budget", req.Budget)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := s.svcs.Goals.CreateGoal(r.Context(), req.Name, budget)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svcs.Goals.ListGoals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoalDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.svcs.Goals.GetGoalDetails(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalDetailsResponse(details))
}

type updateGoalRequest struct {
	Name   string  `json:"name"`
	Budget *string `json:"budget"`
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req updateGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := parseOptionalAmount("budget", req.Budget)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := s.svcs.Goals.UpdateGoalDetails(r.Context(), id, req.Name, budget)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := s.svcs.Goals.MarkGoalComplete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

type allocateRequest struct {
	Amount      string `json:"amount"`
	AccountID   int64  `json:"account_id"`
	Description string `json:"description"`
}

func (s *Server) handleAllocateToGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req allocateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.svcs.Transactions.AllocateToGoal(r.Context(), id, amount, req.AccountID, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

type addStepRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleAddStep(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req addStepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	step, err := s.svcs.Goals.AddStepToGoal(r.Context(), id, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toStepResponse(step))
}

func (s *Server) handleCompleteStep(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svcs.Goals.MarkStepCompleted(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
