package http

import (
	"net/http"

	"jarify/internal/core"
	"jarify/internal/log"
)

func (s *Server) handleListJars(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.jars.List(r.Context()))
}

func (s *Server) handleGetJar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	jar, err := s.jars.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jar)
}

func (s *Server) handleCreateJar(w http.ResponseWriter, r *http.Request) {
	var jar core.Jar
	if !decodeJSON(w, r, &jar) {
		return
	}

	created, err := s.jars.Create(r.Context(), jar)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.reports.Invalidate()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateJar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var jar core.Jar
	if !decodeJSON(w, r, &jar) {
		return
	}
	jar.ID = id

	updated, err := s.jars.Update(r.Context(), jar)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.reports.Invalidate()
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.jars.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	s.reports.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

type transactionRequest struct {
	JarID  int64      `json:"jarId"`
	Amount core.Money `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	jar, err := s.jars.Deposit(r.Context(), req.JarID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.reports.Invalidate()
	respondJSON(w, http.StatusOK, jar)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	jar, err := s.jars.Withdraw(r.Context(), req.JarID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.reports.Invalidate()
	respondJSON(w, http.StatusOK, jar)
}

func (s *Server) handleTogglePin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	jar, err := s.jars.TogglePin(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, jar)
}

type processResponse struct {
	Processed int `json:"processed"`
}

func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	processed, err := s.recurring.Process(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Recurring run failed",
			log.FieldError, err.Error())
		respondError(w, http.StatusInternalServerError, "recurring processing failed")
		return
	}
	if processed > 0 {
		s.reports.Invalidate()
	}
	respondJSON(w, http.StatusOK, processResponse{Processed: processed})
}
