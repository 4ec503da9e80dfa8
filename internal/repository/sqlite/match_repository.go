package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

const matchDetailCols = `
m.match_id, m.map_id, m.map_name, m.flux, m.occasion, m.match_date,
m.duration_formatted, m.match_original_duration, m.match_end_time_ms,
m.match_end_time_formatted, m.winner_party_id, m.winner_guild_id,
m.guild1_id, m.guild1_name, m.guild1_tag, m.guild1_rank, m.guild1_rating,
m.guild1_faction, m.guild1_faction_points, m.guild1_qualifier_points, m.guild1_country,
m.guild2_id, m.guild2_name, m.guild2_tag, m.guild2_rank, m.guild2_rating,
m.guild2_faction, m.guild2_faction_points, m.guild2_qualifier_points, m.guild2_country,
m.description, m.vods, m.credits, m.added_to_website`

type matchRepository struct {
	db      *sql.DB
	pseudos repository.PseudoRepository
	guilds  repository.GuildRepository
}

// NewMatchRepository creates a new MatchRepository implementation.
func NewMatchRepository(db *sql.DB, pseudos repository.PseudoRepository, guilds repository.GuildRepository) repository.MatchRepository {
	return &matchRepository{db: db, pseudos: pseudos, guilds: guilds}
}

func (r *matchRepository) ListRecent(ctx context.Context, limit int) ([]models.MemorialMatch, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")
	log.Debug("listing recent matches: limit=%d", limit)

	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}

	// The inner select bounds the match set before the participant join so the
	// aggregation only touches the page being returned.
	rows, err := r.db.QueryContext(ctx, `
SELECT
    m.match_id, m.match_date, m.map_id, m.map_name, m.flux, m.occasion,
    m.duration_formatted,
    m.guild1_id, m.guild1_name, m.guild1_tag, m.guild1_rank,
    m.guild2_id, m.guild2_name, m.guild2_tag, m.guild2_rank,
    m.winner_guild_id,
    group_concat(CASE WHEN p.guild_id = m.guild1_id THEN p.primary_profession END) AS guild1_professions,
    group_concat(CASE WHEN p.guild_id = m.guild2_id THEN p.primary_profession END) AS guild2_professions,
    COUNT(DISTINCT p.agent_id) AS total_players
FROM (
    SELECT * FROM gvg_matches
    ORDER BY match_date DESC, match_id DESC
    LIMIT ?
) m
LEFT JOIN match_players p ON m.match_id = p.match_id
GROUP BY m.match_id, m.match_date, m.map_id, m.map_name, m.flux, m.occasion,
         m.duration_formatted,
         m.guild1_id, m.guild1_name, m.guild1_tag, m.guild1_rank,
         m.guild2_id, m.guild2_name, m.guild2_tag, m.guild2_rank,
         m.winner_guild_id
ORDER BY m.match_date DESC, m.match_id DESC`, limit)
	if err != nil {
		log.Error("failed to list recent matches: %v", err)
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
	log.Debug("found %d recent matches", len(matches))
	return matches, rows.Err()
}

func (r *matchRepository) ListIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT match_id
FROM gvg_matches
ORDER BY match_date DESC, match_id DESC`)
	if err != nil {
		log.Error("failed to list match ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan match id: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *matchRepository) Get(ctx context.Context, matchID int64) (*models.MatchDetail, error) {
	details, err := r.GetMany(ctx, []int64{matchID})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, sql.ErrNoRows
	}
	return &details[0], nil
}

func (r *matchRepository) GetMany(ctx context.Context, matchIDs []int64) ([]models.MatchDetail, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")
	log.Debug("getting %d matches", len(matchIDs))

	if len(matchIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(matchIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(matchIDs))
	for i, id := range matchIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT %s
FROM gvg_matches m
WHERE m.match_id IN (%s)
ORDER BY m.match_date DESC, m.match_id DESC`, matchDetailCols, placeholders), args...)
	if err != nil {
		log.Error("failed to get matches: %v", err)
		return nil, err
	}
	defer rows.Close()

	var details []models.MatchDetail
	for rows.Next() {
		d, err := scanMatchDetail(rows)
		if err != nil {
			log.Error("failed to scan match: %v", err)
			return nil, err
		}
		details = append(details, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*models.MatchDetail, len(details))
	for i := range details {
		byID[details[i].MatchInfo.MatchID] = &details[i]
	}

	if err := r.attachPlayers(ctx, placeholders, args, byID); err != nil {
		return nil, err
	}
	if err := r.attachNPCs(ctx, placeholders, args, byID); err != nil {
		return nil, err
	}

	for i := range details {
		d := &details[i]
		stats := models.MatchStats{}
		for key, party := range d.Parties {
			stats.TotalPlayers += len(party.Players)
			stats.TotalNPCs += len(party.Others)
			switch key {
			case "1":
				stats.Team1Players = len(party.Players)
			case "2":
				stats.Team2Players = len(party.Players)
			}
		}
		d.Stats = stats
	}
	return details, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatchDetail(row rowScanner) (*models.MatchDetail, error) {
	var (
		d           models.MatchDetail
		g1, g2      models.GuildSnapshot
		description sql.NullString
		vods        string
		credits     sql.NullString
		addedToWeb  sql.NullString
	)
	if err := row.Scan(
		&d.MatchInfo.MatchID, &d.MatchInfo.MapID, &d.MatchInfo.MapName,
		&d.MatchInfo.Flux, &d.MatchInfo.Occasion, &d.MatchInfo.MatchDate,
		&d.MatchInfo.Duration, &d.MatchInfo.OriginalDuration,
		&d.MatchInfo.EndTimeMS, &d.MatchInfo.EndTimeFormatted,
		&d.MatchInfo.WinnerPartyID, &d.MatchInfo.WinnerGuildID,
		&g1.ID, &g1.Name, &g1.Tag, &g1.Rank, &g1.Rating,
		&g1.Faction, &g1.FactionPoints, &g1.QualifierPoints, &g1.Country,
		&g2.ID, &g2.Name, &g2.Tag, &g2.Rank, &g2.Rating,
		&g2.Faction, &g2.FactionPoints, &g2.QualifierPoints, &g2.Country,
		&description, &vods, &credits, &addedToWeb,
	); err != nil {
		return nil, err
	}

	d.MatchInfo.Description = description.String
	d.MatchInfo.Vods = jsonToStrings(vods)
	d.MatchInfo.Credits = credits.String
	d.MatchInfo.AddedToWebsite = addedToWeb.String
	d.Guilds = map[string]models.GuildSnapshot{
		strconv.Itoa(g1.ID): g1,
		strconv.Itoa(g2.ID): g2,
	}
	d.Parties = map[string]models.MatchParty{
		"1": {Players: []models.MatchPlayer{}, Others: []models.MatchNPC{}},
		"2": {Players: []models.MatchPlayer{}, Others: []models.MatchNPC{}},
	}
	return &d, nil
}

func (r *matchRepository) attachPlayers(ctx context.Context, placeholders string, args []any, byID map[int64]*models.MatchDetail) error {
	log := logger.FromContext(ctx).WithPrefix("match_repo")

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT
    mp.match_id, mp.agent_id, mp.pseudo_name, mp.guild_id, mp.team_id,
    mp.party_id, mp.player_number, mp.model_id, mp.primary_profession,
    mp.secondary_profession, mp.level, mp.skill_template_code, mp.used_skills,
    COALESCE(u.username, '') AS username
FROM match_players mp
LEFT JOIN pseudos p ON mp.pseudo_id = p.id
LEFT JOIN users u ON p.user_id = u.id
WHERE mp.match_id IN (%s)
ORDER BY mp.match_id, mp.team_id, mp.player_number`, placeholders), args...)
	if err != nil {
		log.Error("failed to get match players: %v", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID    int64
			teamID     int
			p          models.MatchPlayer
			usedSkills string
		)
		if err := rows.Scan(
			&matchID, &p.AgentID, &p.PseudoName, &p.GuildID, &teamID,
			&p.PartyID, &p.PlayerNumber, &p.ModelID, &p.PrimaryProfession,
			&p.SecondaryProfession, &p.Level, &p.SkillTemplateCode,
			&usedSkills, &p.Username,
		); err != nil {
			log.Error("failed to scan player row: %v", err)
			return err
		}
		p.TeamID = teamID
		p.UsedSkills = jsonToInts(usedSkills)

		d, ok := byID[matchID]
		if !ok {
			continue
		}
		key := strconv.Itoa(teamID)
		party := d.Parties[key]
		party.Players = append(party.Players, p)
		d.Parties[key] = party
	}
	return rows.Err()
}

func (r *matchRepository) attachNPCs(ctx context.Context, placeholders string, args []any, byID map[int64]*models.MatchDetail) error {
	log := logger.FromContext(ctx).WithPrefix("match_repo")

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT match_id, agent_id, team_id, model_id, gadget_id, primary_profession,
       secondary_profession, level, encoded_name, used_skills
FROM match_npcs
WHERE match_id IN (%s)
ORDER BY match_id, team_id, agent_id`, placeholders), args...)
	if err != nil {
		log.Error("failed to get match npcs: %v", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID    int64
			n          models.MatchNPC
			usedSkills string
		)
		if err := rows.Scan(
			&matchID, &n.AgentID, &n.TeamID, &n.ModelID, &n.GadgetID,
			&n.PrimaryProfession, &n.SecondaryProfession, &n.Level,
			&n.EncodedName, &usedSkills,
		); err != nil {
			log.Error("failed to scan npc row: %v", err)
			return err
		}
		n.UsedSkills = jsonToInts(usedSkills)

		d, ok := byID[matchID]
		if !ok {
			continue
		}
		key := strconv.Itoa(n.TeamID)
		party := d.Parties[key]
		party.Others = append(party.Others, n)
		d.Parties[key] = party
	}
	return rows.Err()
}

func (r *matchRepository) Insert(ctx context.Context, req models.CreateMatchRequest) (models.CreateMatchResult, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")
	log.Debug("inserting match: map_id=%d, occasion=%s", req.MapID, req.Occasion)

	matchDate := fmt.Sprintf("%04d-%02d-%02d", req.Year, req.Month, req.Day)
	matchID := time.Now().UnixMicro()

	// Resolve pseudonyms outside the transaction; they are idempotent upserts.
	pseudoIDs := map[string]int64{}
	for _, party := range req.Parties {
		for _, player := range party.Players {
			if _, ok := pseudoIDs[player.EncodedName]; ok {
				continue
			}
			id, err := r.pseudos.Upsert(ctx, player.EncodedName)
			if err != nil {
				log.Error("failed to upsert pseudo %q: %v", player.EncodedName, err)
				return models.CreateMatchResult{}, err
			}
			pseudoIDs[player.EncodedName] = id
		}
	}

	// Map in-match guild numbers ("1"/"2") to archive guild ids.
	guildDBIDs := map[int]int64{}
	for number, g := range req.Guilds {
		n, err := strconv.Atoi(number)
		if err != nil {
			continue
		}
		existing, err := r.guilds.GetByName(ctx, g.Name)
		if err != nil && err != sql.ErrNoRows {
			log.Error("failed to look up guild %q: %v", g.Name, err)
			return models.CreateMatchResult{}, err
		}
		if existing != nil {
			guildDBIDs[n] = existing.ID
			continue
		}
		id, err := r.guilds.Insert(ctx, "", g.Name, g.Tag)
		if err != nil {
			log.Error("failed to insert guild %q: %v", g.Name, err)
			return models.CreateMatchResult{}, err
		}
		guildDBIDs[n] = id
	}

	guild1, guild2 := req.Guilds["1"], req.Guilds["2"]
	winnerGuildID := guildDBIDs[1]
	if req.WinnerPartyID == 2 {
		winnerGuildID = guildDBIDs[2]
	}

	result := models.CreateMatchResult{MatchID: matchID}
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO gvg_matches (
    match_id, match_date, match_datetime, map_id, map_name, flux, occasion,
    duration_seconds, duration_formatted, match_original_duration,
    match_end_time_ms, match_end_time_formatted, winner_party_id, winner_guild_id,
    guild1_id, guild1_name, guild1_tag, guild1_rank, guild1_rating,
    guild1_faction, guild1_faction_points, guild1_qualifier_points, guild1_country,
    guild2_id, guild2_name, guild2_tag, guild2_rank, guild2_rating,
    guild2_faction, guild2_faction_points, guild2_qualifier_points, guild2_country,
    description, vods, credits, added_to_website
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			matchID, matchDate, matchDate+" 00:00:00", req.MapID, req.MapName,
			req.Flux, req.Occasion, durationSeconds(req.MatchDuration),
			req.MatchDuration, req.MatchOriginalDuration, req.MatchEndTimeMS,
			req.MatchEndTimeFormatted, req.WinnerPartyID, winnerGuildID,
			guildDBIDs[1], guild1.Name, guild1.Tag, guild1.Rank, guild1.Rating,
			guild1.Faction, guild1.FactionPoints, guild1.QualifierPoints, guild1.Country,
			guildDBIDs[2], guild2.Name, guild2.Tag, guild2.Rank, guild2.Rating,
			guild2.Faction, guild2.FactionPoints, guild2.QualifierPoints, guild2.Country,
			nullIfEmpty(req.Description), stringsToJSON(req.VodURLs),
			nullIfEmpty(req.Credits), nullIfEmpty(req.AddedToWebsite),
		); err != nil {
			return err
		}

		playerStmt, err := tx.PrepareContext(ctx, `
INSERT INTO match_players (
    match_id, agent_id, pseudo_id, pseudo_name, guild_id, team_id, party_id,
    player_number, model_id, gadget_id, primary_profession,
    secondary_profession, level, skill_template_code, used_skills
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer playerStmt.Close()

		for _, party := range req.Parties {
			for _, p := range party.Players {
				if _, err := playerStmt.ExecContext(ctx,
					matchID, p.ID, pseudoIDs[p.EncodedName], p.EncodedName,
					guildDBIDs[p.GuildID], p.TeamID, p.TeamID, p.PlayerNumber,
					p.ModelID, p.GadgetID, p.Primary, p.Secondary, p.Level,
					p.SkillTemplateCode, intsToJSON(p.UsedSkills),
				); err != nil {
					return err
				}
				result.PlayersInserted++
			}
		}

		npcStmt, err := tx.PrepareContext(ctx, `
INSERT INTO match_npcs (
    match_id, agent_id, team_id, model_id, gadget_id, primary_profession,
    secondary_profession, level, encoded_name, skill_template_code, used_skills
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer npcStmt.Close()

		for _, party := range req.Parties {
			for _, n := range party.Others {
				if _, err := npcStmt.ExecContext(ctx,
					matchID, n.ID, n.TeamID, n.ModelID, n.GadgetID,
					n.Primary, n.Secondary, n.Level, n.EncodedName,
					n.SkillTemplateCode, intsToJSON(n.UsedSkills),
				); err != nil {
					return err
				}
				result.NPCsInserted++
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert match: %v", err)
		return models.CreateMatchResult{}, err
	}

	result.Success = true
	log.Debug("match inserted: match_id=%d, players=%d, npcs=%d",
		matchID, result.PlayersInserted, result.NPCsInserted)
	return result, nil
}

func (r *matchRepository) MatchesUsingSkill(ctx context.Context, skillID, limit, offset int) ([]models.SkillMatchRow, int, error) {
	log := logger.FromContext(ctx).WithPrefix("match_repo")
	log.Debug("listing matches using skill %d: limit=%d, offset=%d", skillID, limit, offset)

	rows, err := r.db.QueryContext(ctx, `
SELECT
    m.match_id, m.match_date, m.map_name, m.occasion, m.flux,
    p.player_number, p.guild_id, p.pseudo_name, p.primary_profession,
    p.secondary_profession, p.used_skills,
    g.name AS guild_name, g.tag AS guild_tag,
    CASE
        WHEN p.guild_id = m.guild1_id THEN m.guild1_rank
        WHEN p.guild_id = m.guild2_id THEN m.guild2_rank
        ELSE 0
    END AS guild_rank
FROM gvg_matches m
JOIN match_players p ON m.match_id = p.match_id
JOIN guilds g ON p.guild_id = g.id
WHERE EXISTS (SELECT 1 FROM json_each(p.used_skills) WHERE json_each.value = ?)
ORDER BY m.match_date DESC, m.match_id DESC
LIMIT ? OFFSET ?`, skillID, limit, offset)
	if err != nil {
		log.Error("failed to list matches using skill: %v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var results []models.SkillMatchRow
	for rows.Next() {
		var (
			row        models.SkillMatchRow
			usedSkills string
		)
		if err := rows.Scan(
			&row.MatchID, &row.MatchDate, &row.MapName, &row.Occasion,
			&row.Flux, &row.PlayerNumber, &row.GuildID, &row.EncodedName,
			&row.PrimaryProfession, &row.SecondaryProfession, &usedSkills,
			&row.GuildName, &row.GuildTag, &row.GuildRank,
		); err != nil {
			log.Error("failed to scan skill match row: %v", err)
			return nil, 0, err
		}
		row.UsedSkills = jsonToInts(usedSkills)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(DISTINCT m.match_id)
FROM gvg_matches m
JOIN match_players p ON m.match_id = p.match_id
WHERE EXISTS (SELECT 1 FROM json_each(p.used_skills) WHERE json_each.value = ?)`,
		skillID).Scan(&total); err != nil {
		log.Error("failed to count matches using skill: %v", err)
		return nil, 0, err
	}
	return results, total, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// durationSeconds converts an "MM:SS" duration label to seconds. Unparseable
// labels yield 0.
func durationSeconds(formatted string) int {
	parts := strings.SplitN(formatted, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err1 := strconv.Atoi(parts[0])
	seconds, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return minutes*60 + seconds
}
