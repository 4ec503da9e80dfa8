package api

import (
	"github.com/gwarchivist/gwarchivist/internal/db"
	"github.com/gwarchivist/gwarchivist/internal/services"
)

// Server carries the dependencies of every HTTP handler.
type Server struct {
	MemorialService services.MemorialService
	MatchService    services.MatchService
	GuildService    services.GuildService
	PseudoService   services.PseudoService
	DB              *db.DB

	AllowedOrigins []string
	MaxSearchLimit int
	GuildListLimit int
}
