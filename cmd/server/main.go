package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwarchivist/gwarchivist/internal/api"
	"github.com/gwarchivist/gwarchivist/internal/config"
	"github.com/gwarchivist/gwarchivist/internal/db"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/repository/sqlite"
	"github.com/gwarchivist/gwarchivist/internal/services"
	"github.com/gwarchivist/gwarchivist/internal/skills"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("GW Archivist Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("allowed_origins=%v", cfg.AllowedOrigins)
	log.Debug("max_search_limit=%d", cfg.MaxSearchLimit)
	log.Debug("guild_list_limit=%d", cfg.GuildListLimit)
	log.Debug("player_search_cap=%d", cfg.PlayerSearchCap)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	skillIndex, err := skills.Load()
	if err != nil {
		log.Error("failed to load skill data: %v", err)
		os.Exit(1)
	}
	log.Debug("skill index loaded (%d skills)", skillIndex.Len())

	pseudoRepo := sqlite.NewPseudoRepository(database.DB)
	guildRepo := sqlite.NewGuildRepository(database.DB)
	matchRepo := sqlite.NewMatchRepository(database.DB, pseudoRepo, guildRepo)
	memorialRepo := sqlite.NewMemorialRepository(database.DB, cfg.PlayerSearchCap, cfg.GuildListLimit)

	srv := &api.Server{
		MemorialService: services.NewMemorialService(memorialRepo),
		MatchService:    services.NewMatchService(matchRepo, skillIndex),
		GuildService:    services.NewGuildService(guildRepo),
		PseudoService:   services.NewPseudoService(pseudoRepo),
		DB:              database,
		AllowedOrigins:  cfg.AllowedOrigins,
		MaxSearchLimit:  cfg.MaxSearchLimit,
		GuildListLimit:  cfg.GuildListLimit,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("GW Archivist Server Stopped")
	log.Info("===========================================")
}
