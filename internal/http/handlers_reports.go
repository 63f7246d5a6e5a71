package http

import "net/http"

func (s *Server) handleSpendingReport(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateField("start_date", r.URL.Query().Get("start_date"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	endDate, err := parseDateField("end_date", r.URL.Query().Get("end_date"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if endDate.Before(startDate.Time) {
		respondError(w, r, http.StatusBadRequest, "end_date precedes start_date")
		return
	}

	key := startDate.String() + "|" + endDate.String()
	if summary, found := s.reportCache.Get(key); found {
		respondJSON(w, http.StatusOK, toSpendingSummaryResponse(summary))
		return
	}

	summary, err := s.svcs.Reports.GenerateSpendingSummary(r.Context(), startDate, endDate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.reportCache.Set(key, summary)
	respondJSON(w, http.StatusOK, toSpendingSummaryResponse(summary))
}

const overviewCacheKey = "overview"

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if overview, found := s.overviewCache.Get(overviewCacheKey); found {
		respondJSON(w, http.StatusOK, toOverviewResponse(overview))
		return
	}

	overview, err := s.svcs.Reports.Overview(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.overviewCache.Set(overviewCacheKey, overview)
	respondJSON(w, http.StatusOK, toOverviewResponse(overview))
}
