package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
)

// parseMemorialFilters normalizes raw query parameters into a filter set.
// Malformed values fail open: a non-numeric mapId is treated as no map filter
// rather than an error, since this is a public read-only search surface.
func parseMemorialFilters(values url.Values, maxLimit int) models.MemorialFilters {
	f := models.MemorialFilters{
		Limit: models.DefaultSearchLimit,
	}

	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if v, err := strconv.Atoi(values.Get("offset")); err == nil && v > 0 {
		f.Offset = v
	}

	f.Search = values.Get("search")
	// Dates stay as YYYY-MM-DD strings; the fixed format makes range
	// comparisons lexicographic-safe with no timezone handling.
	f.DateFrom = values.Get("dateFrom")
	f.DateTo = values.Get("dateTo")
	f.Flux = values.Get("flux")
	f.Occasion = values.Get("occasion")

	if v, err := strconv.Atoi(values.Get("mapId")); err == nil && v > 0 {
		f.MapID = v
	}
	if v, err := strconv.Atoi(values.Get("guildId")); err == nil && v > 0 {
		f.GuildID = v
	}

	// Each slot's profession and count are read independently; a slot only
	// becomes active once it has both (see ProfessionSlot.Active).
	for i := 0; i < models.MaxProfessionSlots; i++ {
		key := fmt.Sprintf("profession%d", i+1)
		if v, err := strconv.Atoi(values.Get(key)); err == nil && v > 0 {
			f.Professions[i].Profession = v
		}
		if v, err := strconv.Atoi(values.Get(key + "Count")); err == nil && v > 0 {
			f.Professions[i].MinCount = v
		}
	}

	return f
}

func (s *Server) handleMemorialSearch(w http.ResponseWriter, r *http.Request) {
	filters := parseMemorialFilters(r.URL.Query(), s.MaxSearchLimit)

	response, err := s.MemorialService.Search(r.Context(), filters)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (s *Server) handleMemorialOptions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body struct {
		Type   string `json:"type"`
		Search string `json:"search"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("filter options request: type=%s, search=%q", body.Type, body.Search)

	var (
		result any
		err    error
	)
	switch body.Type {
	case "occasions":
		result, err = s.MemorialService.Occasions(r.Context())
	case "fluxes":
		result, err = s.MemorialService.Fluxes(r.Context())
	case "maps":
		result, err = s.MemorialService.Maps(r.Context())
	case "guilds":
		result, err = s.MemorialService.Guilds(r.Context(), body.Search)
	case "all":
		result, err = s.MemorialService.AllOptions(r.Context(), body.Search)
	default:
		handleError(w, r, errors.NewBadRequestError("invalid request type"))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
