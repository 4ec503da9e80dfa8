package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gwarchivist/gwarchivist/internal/errors"
)

func (s *Server) handleListGuilds(w http.ResponseWriter, r *http.Request) {
	limit := s.GuildListLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	guilds, err := s.GuildService.List(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, guilds)
}

func (s *Server) handleCreateGuild(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		Tag  string `json:"tag"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	id, created, err := s.GuildService.CreateGuild(r.Context(), body.Key, body.Name, body.Tag)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !created {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"message":  "guild already exists",
			"guild_id": id,
		})
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"message":  "guild created",
		"guild_id": id,
	})
}

// handleResolveGuild looks a guild up by id, name or tag, in that priority.
func (s *Server) handleResolveGuild(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(ref); err == nil {
		ref = decoded
	}
	// Some clients quote the reference when it is a guild name.
	ref = strings.Trim(ref, `"`)
	if ref == "" {
		handleError(w, r, errors.NewBadRequestError("guild reference is required"))
		return
	}

	guild, err := s.GuildService.Resolve(r.Context(), ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, guild)
}
