package http

import (
	"net/http"

	"jarify/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng := core.TimeRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = core.RangeAll
	}
	if !rng.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid range, use week, month, year or all")
		return
	}
	respondJSON(w, http.StatusOK, s.reports.Summary(r.Context(), rng))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reports.Plan(r.Context()))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reports.Breakdown(r.Context()))
}

type calcResponse struct {
	Result float64 `json:"result"`
}

func (s *Server) handleCompound(w http.ResponseWriter, r *http.Request) {
	principal, err1 := queryFloat(r, "principal")
	rate, err2 := queryFloat(r, "rate")
	years, err3 := queryFloat(r, "years")
	if err1 != nil || err2 != nil || err3 != nil {
		respondError(w, http.StatusBadRequest, "principal, rate and years must be numbers")
		return
	}

	result, err := core.CompoundInterest(principal, rate, years)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calcResponse{Result: result})
}

func (s *Server) handleEMI(w http.ResponseWriter, r *http.Request) {
	principal, err1 := queryFloat(r, "principal")
	rate, err2 := queryFloat(r, "rate")
	years, err3 := queryFloat(r, "years")
	if err1 != nil || err2 != nil || err3 != nil {
		respondError(w, http.StatusBadRequest, "principal, rate and years must be numbers")
		return
	}

	result, err := core.LoanEMI(principal, rate, years)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calcResponse{Result: result})
}

type monthsResponse struct {
	Months int `json:"months"`
}

func (s *Server) handleMonthsToGoal(w http.ResponseWriter, r *http.Request) {
	target, err1 := queryFloat(r, "target")
	current, err2 := queryFloat(r, "current")
	monthly, err3 := queryFloat(r, "monthly")
	if err1 != nil || err2 != nil || err3 != nil {
		respondError(w, http.StatusBadRequest, "target, current and monthly must be numbers")
		return
	}

	months, err := core.MonthsToGoal(target, current, monthly)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, monthsResponse{Months: months})
}
