package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

// MemorialService handles the searchable match archive.
type MemorialService interface {
	Search(ctx context.Context, filters models.MemorialFilters) (*models.MemorialResponse, error)
	Occasions(ctx context.Context) ([]string, error)
	Fluxes(ctx context.Context) ([]string, error)
	Maps(ctx context.Context) ([]models.MapOption, error)
	Guilds(ctx context.Context, search string) ([]models.GuildOption, error)
	AllOptions(ctx context.Context, search string) (*models.FilterOptions, error)
}

type memorialService struct {
	repo repository.MemorialRepository
}

// NewMemorialService creates a new MemorialService.
func NewMemorialService(repo repository.MemorialRepository) MemorialService {
	return &memorialService{repo: repo}
}

// Search runs the result query and the count query concurrently. Both read
// the same data, so overlapping them roughly halves the request latency, and
// both must succeed: a partial answer would break the pagination contract.
func (s *memorialService) Search(ctx context.Context, filters models.MemorialFilters) (*models.MemorialResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("searching memorial: limit=%d, offset=%d", filters.Limit, filters.Offset)

	if filters.Limit <= 0 {
		filters.Limit = models.DefaultSearchLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	var (
		matches []models.MemorialMatch
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.repo.Search(gctx, filters)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("memorial search failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if matches == nil {
		matches = []models.MemorialMatch{}
	}
	return &models.MemorialResponse{
		Matches:    matches,
		Pagination: models.NewPagination(total, filters.Limit, filters.Offset),
	}, nil
}

func (s *memorialService) Occasions(ctx context.Context) ([]string, error) {
	occasions, err := s.repo.Occasions(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if occasions == nil {
		occasions = []string{}
	}
	return occasions, nil
}

func (s *memorialService) Fluxes(ctx context.Context) ([]string, error) {
	fluxes, err := s.repo.Fluxes(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if fluxes == nil {
		fluxes = []string{}
	}
	return fluxes, nil
}

func (s *memorialService) Maps(ctx context.Context) ([]models.MapOption, error) {
	maps, err := s.repo.Maps(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if maps == nil {
		maps = []models.MapOption{}
	}
	return maps, nil
}

func (s *memorialService) Guilds(ctx context.Context, search string) ([]models.GuildOption, error) {
	guilds, err := s.repo.GuildDirectory(ctx, search)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if guilds == nil {
		guilds = []models.GuildOption{}
	}
	return guilds, nil
}

// AllOptions fetches the four filter-option lists concurrently.
func (s *memorialService) AllOptions(ctx context.Context, search string) (*models.FilterOptions, error) {
	var options models.FilterOptions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		occasions, err := s.Occasions(gctx)
		options.Occasions = occasions
		return err
	})
	g.Go(func() error {
		fluxes, err := s.Fluxes(gctx)
		options.Fluxes = fluxes
		return err
	})
	g.Go(func() error {
		maps, err := s.Maps(gctx)
		options.Maps = maps
		return err
	})
	g.Go(func() error {
		guilds, err := s.Guilds(gctx, search)
		options.Guilds = guilds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &options, nil
}
