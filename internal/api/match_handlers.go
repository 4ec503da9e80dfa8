package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/models"
)

// handleMatches serves three shapes from one route, mirroring how the archive
// front end asks for data: a single match detail (?match_id=), a bulk detail
// view (?match_ids=a,b,c), or the recent-match listing.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("match_ids"); raw != "" {
		var ids []int64
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		details, err := s.MatchService.GetMatches(r.Context(), ids)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, details)
		return
	}

	if raw := query.Get("match_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid match id"))
			return
		}
		detail, err := s.MatchService.GetMatch(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, detail)
		return
	}

	limit := models.DefaultSearchLimit
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	matches, err := s.MatchService.ListRecent(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, matches)
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.MatchService.CreateMatch(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleMatchIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.MatchService.ListIDs(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ids)
}

func (s *Server) handleSkillMatches(w http.ResponseWriter, r *http.Request) {
	skillID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid skill ID"))
		return
	}

	query := r.URL.Query()
	limit := 20
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if v, err := strconv.Atoi(query.Get("offset")); err == nil && v > 0 {
		offset = v
	}

	response, err := s.MatchService.MatchesUsingSkill(r.Context(), skillID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}
