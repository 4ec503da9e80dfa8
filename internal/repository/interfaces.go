package repository

import (
	"context"

	"github.com/gwarchivist/gwarchivist/internal/models"
)

// MemorialRepository is the read side of the searchable match archive.
type MemorialRepository interface {
	// Search runs the grouped, paginated result query for the given filters.
	Search(ctx context.Context, filters models.MemorialFilters) ([]models.MemorialMatch, error)
	// Count runs the matching total-count query over the same predicate set.
	Count(ctx context.Context, filters models.MemorialFilters) (int, error)
	Occasions(ctx context.Context) ([]string, error)
	Fluxes(ctx context.Context) ([]string, error)
	Maps(ctx context.Context) ([]models.MapOption, error)
	GuildDirectory(ctx context.Context, search string) ([]models.GuildOption, error)
}

// MatchRepository handles match record access outside the memorial search.
type MatchRepository interface {
	ListRecent(ctx context.Context, limit int) ([]models.MemorialMatch, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, matchID int64) (*models.MatchDetail, error)
	GetMany(ctx context.Context, matchIDs []int64) ([]models.MatchDetail, error)
	Insert(ctx context.Context, req models.CreateMatchRequest) (models.CreateMatchResult, error)
	MatchesUsingSkill(ctx context.Context, skillID, limit, offset int) ([]models.SkillMatchRow, int, error)
}

// GuildRepository handles guild identity access.
type GuildRepository interface {
	Get(ctx context.Context, id int64) (*models.Guild, error)
	GetByName(ctx context.Context, name string) (*models.Guild, error)
	GetByKey(ctx context.Context, key string) (*models.Guild, error)
	// Resolve looks a guild up by id, then name, then tag, in that priority.
	Resolve(ctx context.Context, ref string) (*models.Guild, error)
	List(ctx context.Context, limit int) ([]models.Guild, error)
	Insert(ctx context.Context, key, name, tag string) (int64, error)
}

// PseudoRepository handles player pseudonym access.
type PseudoRepository interface {
	Get(ctx context.Context, pseudo string) (*models.Pseudo, error)
	Insert(ctx context.Context, pseudo string, userID *int64) (int64, error)
	// Upsert returns the existing id for a pseudo or inserts it.
	Upsert(ctx context.Context, pseudo string) (int64, error)
}
