package services

import (
	"context"
	"database/sql"
	gerrors "errors"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

// GuildService handles guild identity business logic.
type GuildService interface {
	// CreateGuild inserts a guild, or reports the existing one when the name
	// or key is already registered. The bool result is true for new inserts.
	CreateGuild(ctx context.Context, key, name, tag string) (int64, bool, error)
	GetByName(ctx context.Context, name string) (*models.Guild, error)
	GetByKey(ctx context.Context, key string) (*models.Guild, error)
	Resolve(ctx context.Context, ref string) (*models.Guild, error)
	List(ctx context.Context, limit int) ([]models.Guild, error)
}

type guildService struct {
	repo repository.GuildRepository
}

// NewGuildService creates a new GuildService.
func NewGuildService(repo repository.GuildRepository) GuildService {
	return &guildService{repo: repo}
}

func (s *guildService) CreateGuild(ctx context.Context, key, name, tag string) (int64, bool, error) {
	log := logger.FromContext(ctx)

	if key == "" || name == "" || tag == "" {
		return 0, false, errors.NewValidationError("guild", "key, name and tag are required")
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return 0, false, errors.NewInternalError(err)
	}
	if existing == nil {
		if byKey, err := s.repo.GetByKey(ctx, key); err == nil {
			existing = byKey
		} else if !gerrors.Is(err, sql.ErrNoRows) {
			return 0, false, errors.NewInternalError(err)
		}
	}
	if existing != nil {
		log.Debug("guild already exists: id=%d, name=%s", existing.ID, existing.Name)
		return existing.ID, false, nil
	}

	id, err := s.repo.Insert(ctx, key, name, tag)
	if err != nil {
		return 0, false, errors.NewInternalError(err)
	}
	log.Info("guild created: id=%d, name=%s [%s]", id, name, tag)
	return id, true, nil
}

func (s *guildService) GetByName(ctx context.Context, name string) (*models.Guild, error) {
	g, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if g == nil {
		return nil, errors.NewNotFoundError("guild", name)
	}
	return g, nil
}

func (s *guildService) GetByKey(ctx context.Context, key string) (*models.Guild, error) {
	g, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if gerrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("guild", key)
		}
		return nil, errors.NewInternalError(err)
	}
	return g, nil
}

func (s *guildService) Resolve(ctx context.Context, ref string) (*models.Guild, error) {
	g, err := s.repo.Resolve(ctx, ref)
	if err != nil {
		if gerrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("guild", ref)
		}
		return nil, errors.NewInternalError(err)
	}
	return g, nil
}

func (s *guildService) List(ctx context.Context, limit int) ([]models.Guild, error) {
	guilds, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if guilds == nil {
		guilds = []models.Guild{}
	}
	return guilds, nil
}
