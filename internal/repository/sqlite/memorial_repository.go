package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// matchSummaryCols are the grouped columns of the memorial result query. The
// GROUP BY must list every one of them, so they are shared between SELECT and
// GROUP BY to keep the two in lockstep.
var matchSummaryCols = []string{
	"m.match_id", "m.match_date", "m.map_id", "m.map_name", "m.flux",
	"m.occasion", "m.duration_formatted",
	"m.guild1_id", "m.guild1_name", "m.guild1_tag", "m.guild1_rank",
	"m.guild2_id", "m.guild2_name", "m.guild2_tag", "m.guild2_rank",
	"m.winner_guild_id",
}

type memorialRepository struct {
	db *sql.DB

	// playerSearchCap bounds the candidate rows of the participant-name
	// subquery. Best-effort relevance limit, not a correctness guarantee.
	playerSearchCap int
	// guildListLimit bounds the guild directory response.
	guildListLimit int
}

// NewMemorialRepository creates a new MemorialRepository implementation.
func NewMemorialRepository(db *sql.DB, playerSearchCap, guildListLimit int) repository.MemorialRepository {
	return &memorialRepository{
		db:              db,
		playerSearchCap: playerSearchCap,
		guildListLimit:  guildListLimit,
	}
}

// conditions compiles the filter set into one predicate per active filter.
// Every user-supplied value travels as a bound argument; predicates never
// interpolate input into SQL text.
func (r *memorialRepository) conditions(f models.MemorialFilters) []squirrel.Sqlizer {
	var conds []squirrel.Sqlizer

	if f.DateFrom != "" {
		conds = append(conds, squirrel.GtOrEq{"m.match_date": f.DateFrom})
	}
	if f.DateTo != "" {
		conds = append(conds, squirrel.LtOrEq{"m.match_date": f.DateTo})
	}
	if f.MapID > 0 {
		conds = append(conds, squirrel.Eq{"m.map_id": f.MapID})
	}
	if f.Flux != "" {
		conds = append(conds, squirrel.Eq{"m.flux": f.Flux})
	}
	if f.Occasion != "" {
		conds = append(conds, squirrel.Eq{"m.occasion": f.Occasion})
	}
	if f.GuildID > 0 {
		// A guild filter matches the guild on either side of the match.
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"m.guild1_id": f.GuildID},
			squirrel.Eq{"m.guild2_id": f.GuildID},
		})
	}

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, squirrel.Expr(`(
lower(m.guild1_name) LIKE ? OR lower(m.guild1_tag) LIKE ?
OR lower(m.guild2_name) LIKE ? OR lower(m.guild2_tag) LIKE ?
OR m.match_id IN (
    SELECT mp.match_id FROM match_players mp
    WHERE lower(mp.pseudo_name) LIKE ?
    LIMIT ?
))`, pattern, pattern, pattern, pattern, pattern, r.playerSearchCap))
	}

	// One correlated subquery per active profession slot. The grouping must be
	// by (match, guild-side): the constraint is "one guild fielded at least N
	// of this profession", not "N existed anywhere in the match". Positional
	// arguments keep slots independent even when two slots name the same
	// profession with different thresholds.
	for _, slot := range f.Professions {
		if !slot.Active() {
			continue
		}
		conds = append(conds, squirrel.Expr(`m.match_id IN (
    SELECT mp.match_id FROM match_players mp
    WHERE mp.primary_profession = ?
    GROUP BY mp.match_id, mp.guild_id
    HAVING COUNT(*) >= ?
)`, slot.Profession, slot.MinCount))
	}

	return conds
}

func (r *memorialRepository) Search(ctx context.Context, f models.MemorialFilters) ([]models.MemorialMatch, error) {
	log := logger.FromContext(ctx).WithPrefix("memorial_repo")
	log.Debug("searching matches: search=%q, dateFrom=%s, dateTo=%s, mapId=%d, guildId=%d, limit=%d, offset=%d",
		f.Search, f.DateFrom, f.DateTo, f.MapID, f.GuildID, f.Limit, f.Offset)

	limit := f.Limit
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := sqlBuilder.Select(matchSummaryCols...).
		Columns(
			"group_concat(CASE WHEN p.guild_id = m.guild1_id THEN p.primary_profession END) AS guild1_professions",
			"group_concat(CASE WHEN p.guild_id = m.guild2_id THEN p.primary_profession END) AS guild2_professions",
			"COUNT(DISTINCT p.agent_id) AS total_players",
		).
		From("gvg_matches m").
		LeftJoin("match_players p ON m.match_id = p.match_id")

	for _, cond := range r.conditions(f) {
		query = query.Where(cond)
	}

	query = query.
		GroupBy(matchSummaryCols...).
		OrderBy("m.match_date DESC", "m.match_id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build search query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to search matches: %v", err)
		return nil, err
	}
	defer rows.Close()

	var matches []models.MemorialMatch
	for rows.Next() {
		var m models.MemorialMatch
		var profs1, profs2 sql.NullString
		if err := rows.Scan(
			&m.MatchID, &m.MatchDate, &m.MapID, &m.MapName, &m.Flux,
			&m.Occasion, &m.DurationFormatted,
			&m.Guild1ID, &m.Guild1Name, &m.Guild1Tag, &m.Guild1Rank,
			&m.Guild2ID, &m.Guild2Name, &m.Guild2Tag, &m.Guild2Rank,
			&m.WinnerGuildID, &profs1, &profs2, &m.TotalPlayers,
		); err != nil {
			log.Error("failed to scan match row: %v", err)
			return nil, err
		}
		m.Guild1Professions = parseIntList(profs1.String)
		m.Guild2Professions = parseIntList(profs2.String)
		matches = append(matches, m)
	}
	log.Debug("found %d matches", len(matches))
	return matches, rows.Err()
}

func (r *memorialRepository) Count(ctx context.Context, f models.MemorialFilters) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("memorial_repo")

	// Same join and predicate set as Search, collapsed to a distinct count.
	query := sqlBuilder.Select("COUNT(DISTINCT m.match_id)").
		From("gvg_matches m").
		LeftJoin("match_players p ON m.match_id = p.match_id")

	for _, cond := range r.conditions(f) {
		query = query.Where(cond)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count matches: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *memorialRepository) Occasions(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, "occasion")
}

func (r *memorialRepository) Fluxes(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, "flux")
}

// distinctLabels lists the non-empty values of a categorical match column.
// The column name comes from the two callers above, never from user input.
func (r *memorialRepository) distinctLabels(ctx context.Context, column string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("memorial_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT `+column+`
FROM gvg_matches
WHERE `+column+` <> ''
ORDER BY `+column)
	if err != nil {
		log.Error("failed to list %s values: %v", column, err)
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			log.Error("failed to scan %s row: %v", column, err)
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *memorialRepository) Maps(ctx context.Context) ([]models.MapOption, error) {
	log := logger.FromContext(ctx).WithPrefix("memorial_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT map_id, MIN(map_name) AS map_name
FROM gvg_matches
WHERE map_id > 0
GROUP BY map_id
ORDER BY map_name`)
	if err != nil {
		log.Error("failed to list maps: %v", err)
		return nil, err
	}
	defer rows.Close()

	var maps []models.MapOption
	for rows.Next() {
		var m models.MapOption
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			log.Error("failed to scan map row: %v", err)
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

func (r *memorialRepository) GuildDirectory(ctx context.Context, search string) ([]models.GuildOption, error) {
	log := logger.FromContext(ctx).WithPrefix("memorial_repo")
	log.Debug("listing guild directory: search=%q", search)

	if search == "" {
		rows, err := r.db.QueryContext(ctx, `
SELECT id, name, tag
FROM guilds
ORDER BY name
LIMIT ?`, r.guildListLimit)
		if err != nil {
			log.Error("failed to list guilds: %v", err)
			return nil, err
		}
		defer rows.Close()

		var guilds []models.GuildOption
		for rows.Next() {
			var g models.GuildOption
			if err := rows.Scan(&g.ID, &g.Name, &g.Tag); err != nil {
				log.Error("failed to scan guild row: %v", err)
				return nil, err
			}
			guilds = append(guilds, g)
		}
		return guilds, rows.Err()
	}

	// Filtered lookups rank guilds by how often they appear in the archive.
	pattern := "%" + strings.ToLower(search) + "%"
	rows, err := r.db.QueryContext(ctx, `
SELECT g.id, g.name, g.tag, COUNT(m.match_id) AS match_count
FROM guilds g
LEFT JOIN gvg_matches m ON m.guild1_id = g.id OR m.guild2_id = g.id
WHERE lower(g.name || ' ' || g.tag) LIKE ?
GROUP BY g.id, g.name, g.tag
ORDER BY match_count DESC, g.name
LIMIT ?`, pattern, r.guildListLimit)
	if err != nil {
		log.Error("failed to search guilds: %v", err)
		return nil, err
	}
	defer rows.Close()

	var guilds []models.GuildOption
	for rows.Next() {
		var g models.GuildOption
		if err := rows.Scan(&g.ID, &g.Name, &g.Tag, &g.MatchCount); err != nil {
			log.Error("failed to scan guild row: %v", err)
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}
