package http

import (
	"net/http"

	"jarify/internal/core"
)

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.jars.Folders(r.Context()))
}

func (s *Server) handleReplaceFolders(w http.ResponseWriter, r *http.Request) {
	var folders []core.Folder
	if !decodeJSON(w, r, &folders) {
		return
	}
	respondJSON(w, http.StatusOK, s.jars.ReplaceFolders(r.Context(), folders))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.jars.Categories(r.Context()))
}

func (s *Server) handleReplaceCategories(w http.ResponseWriter, r *http.Request) {
	var categories []core.Category
	if !decodeJSON(w, r, &categories) {
		return
	}
	s.jars.ReplaceCategories(r.Context(), categories)
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.jars.Notes(r.Context()))
}

func (s *Server) handleReplaceNotes(w http.ResponseWriter, r *http.Request) {
	var notes []core.Note
	if !decodeJSON(w, r, &notes) {
		return
	}
	s.jars.ReplaceNotes(r.Context(), notes)
	respondJSON(w, http.StatusOK, notes)
}

type darkModeResponse struct {
	DarkMode bool `json:"darkMode"`
}

func (s *Server) handleGetDarkMode(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, darkModeResponse{DarkMode: s.jars.DarkMode(r.Context())})
}

func (s *Server) handleSetDarkMode(w http.ResponseWriter, r *http.Request) {
	var req darkModeResponse
	if !decodeJSON(w, r, &req) {
		return
	}
	s.jars.SetDarkMode(r.Context(), req.DarkMode)
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.jars.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "reset failed: "+err.Error())
		return
	}
	s.reports.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
