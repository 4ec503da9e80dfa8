package api

import (
	"net/http"

	"github.com/gwarchivist/gwarchivist/internal/errors"
)

func (s *Server) handleGetPseudo(w http.ResponseWriter, r *http.Request) {
	pseudo := r.URL.Query().Get("pseudo")
	if pseudo == "" {
		handleError(w, r, errors.NewBadRequestError("pseudo parameter is required"))
		return
	}

	p, err := s.PseudoService.GetPseudo(r.Context(), pseudo)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleCreatePseudo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pseudo string `json:"pseudo"`
		UserID *int64 `json:"user_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	id, created, err := s.PseudoService.CreatePseudo(r.Context(), body.Pseudo, body.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !created {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"message":   "pseudo already exists",
			"pseudo_id": id,
		})
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message":   "pseudo created",
		"pseudo_id": id,
	})
}
