package services

import (
	"context"
	"database/sql"
	gerrors "errors"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
	"github.com/gwarchivist/gwarchivist/internal/skills"
)

// MatchService handles match records outside the memorial search: listings,
// detail views, ingestion and the skill reverse lookup.
type MatchService interface {
	ListRecent(ctx context.Context, limit int) ([]models.MemorialMatch, error)
	ListIDs(ctx context.Context) ([]int64, error)
	GetMatch(ctx context.Context, matchID int64) (*models.MatchDetail, error)
	GetMatches(ctx context.Context, matchIDs []int64) ([]models.MatchDetail, error)
	CreateMatch(ctx context.Context, req models.CreateMatchRequest) (models.CreateMatchResult, error)
	MatchesUsingSkill(ctx context.Context, skillID, limit, offset int) (*models.SkillMatchesResponse, error)
}

type matchService struct {
	repo       repository.MatchRepository
	skillIndex *skills.Index
}

// NewMatchService creates a new MatchService.
func NewMatchService(repo repository.MatchRepository, skillIndex *skills.Index) MatchService {
	return &matchService{repo: repo, skillIndex: skillIndex}
}

func (s *matchService) ListRecent(ctx context.Context, limit int) ([]models.MemorialMatch, error) {
	matches, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if matches == nil {
		matches = []models.MemorialMatch{}
	}
	return matches, nil
}

func (s *matchService) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int64) (*models.MatchDetail, error) {
	detail, err := s.repo.Get(ctx, matchID)
	if err != nil {
		if gerrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("match", matchID)
		}
		return nil, errors.NewInternalError(err)
	}
	return detail, nil
}

func (s *matchService) GetMatches(ctx context.Context, matchIDs []int64) ([]models.MatchDetail, error) {
	if len(matchIDs) == 0 {
		return nil, errors.NewBadRequestError("no valid match IDs provided")
	}
	details, err := s.repo.GetMany(ctx, matchIDs)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if details == nil {
		details = []models.MatchDetail{}
	}
	return details, nil
}

func (s *matchService) CreateMatch(ctx context.Context, req models.CreateMatchRequest) (models.CreateMatchResult, error) {
	log := logger.FromContext(ctx)

	if req.Year == 0 || req.Month == 0 || req.Day == 0 {
		return models.CreateMatchResult{}, errors.NewValidationError("date", "day, month and year are required")
	}
	if _, ok := req.Guilds["1"]; !ok {
		return models.CreateMatchResult{}, errors.NewValidationError("guilds", "guild 1 is missing")
	}
	if _, ok := req.Guilds["2"]; !ok {
		return models.CreateMatchResult{}, errors.NewValidationError("guilds", "guild 2 is missing")
	}

	result, err := s.repo.Insert(ctx, req)
	if err != nil {
		log.Error("match ingestion failed: %v", err)
		return models.CreateMatchResult{}, errors.NewInternalError(err)
	}
	log.Info("match ingested: match_id=%d, players=%d, npcs=%d",
		result.MatchID, result.PlayersInserted, result.NPCsInserted)
	return result, nil
}

func (s *matchService) MatchesUsingSkill(ctx context.Context, skillID, limit, offset int) (*models.SkillMatchesResponse, error) {
	skill, ok := s.skillIndex.Lookup(skillID)
	if !ok {
		return nil, errors.NewNotFoundError("skill", skillID)
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	matches, total, err := s.repo.MatchesUsingSkill(ctx, skillID, limit, offset)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if matches == nil {
		matches = []models.SkillMatchRow{}
	}
	return &models.SkillMatchesResponse{
		SkillID:    skillID,
		SkillName:  skill.Name,
		Matches:    matches,
		Pagination: models.NewPagination(total, limit, offset),
	}, nil
}
