package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/memorial", s.handleMemorialSearch)
		r.Post("/memorial", s.handleMemorialOptions)

		r.Get("/matchs", s.handleMatches)
		r.Post("/matchs", s.handleCreateMatch)
		r.Get("/matchs/ids", s.handleMatchIDs)

		r.Get("/guilds", s.handleListGuilds)
		r.Post("/guilds", s.handleCreateGuild)
		r.Get("/guild/{id}", s.handleResolveGuild)

		r.Get("/pseudos", s.handleGetPseudo)
		r.Post("/pseudos", s.handleCreatePseudo)

		r.Get("/skill/{id}/matches", s.handleSkillMatches)

		r.Get("/health", s.handleHealth)
	})

	// The React front end is served from its own origin.
	c := cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
