package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
	"github.com/gwarchivist/gwarchivist/internal/repository/sqlite"
	"github.com/gwarchivist/gwarchivist/internal/testutil"
)

const (
	profWarrior      = 1
	profRanger       = 2
	profMonk         = 3
	profNecromancer  = 4
	profMesmer       = 5
	profElementalist = 6
)

type MemorialRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.MemorialRepository
}

func (s *MemorialRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewMemorialRepository(s.db, 1000, 100)
}

func (s *MemorialRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *MemorialRepositorySuite) insertGuild(id int64, name, tag string) {
	_, err := s.db.Exec(`INSERT INTO guilds (id, name, tag) VALUES (?, ?, ?)`, id, name, tag)
	s.Require().NoError(err)
}

func (s *MemorialRepositorySuite) insertMatch(matchID int64, date string, mapID int64, mapName, flux, occasion string, guild1, guild2, winner int64) {
	var g1name, g1tag, g2name, g2tag string
	err := s.db.QueryRow(`SELECT name, tag FROM guilds WHERE id = ?`, guild1).Scan(&g1name, &g1tag)
	s.Require().NoError(err)
	err = s.db.QueryRow(`SELECT name, tag FROM guilds WHERE id = ?`, guild2).Scan(&g2name, &g2tag)
	s.Require().NoError(err)

	_, err = s.db.Exec(`
		INSERT INTO gvg_matches (match_id, match_date, map_id, map_name, flux, occasion,
			guild1_id, guild1_name, guild1_tag, guild2_id, guild2_name, guild2_tag, winner_guild_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, matchID, date, mapID, mapName, flux, occasion, guild1, g1name, g1tag, guild2, g2name, g2tag, winner)
	s.Require().NoError(err)
}

func (s *MemorialRepositorySuite) insertPlayer(matchID, agentID int64, pseudoName string, guildID int64, profession int) {
	_, err := s.db.Exec(`
		INSERT INTO match_players (match_id, agent_id, pseudo_name, guild_id, team_id, primary_profession)
		VALUES (?, ?, ?, ?, ?, ?)
	`, matchID, agentID, pseudoName, guildID, guildID, profession)
	s.Require().NoError(err)
}

// seedArchive creates three matches across three guilds:
//
//	match 100 (2024-01-10): Dragon Slayers vs Eternal Flame on Burning Isle,
//	  guild 1 fields 4 monks, guild 2 fields 3 monks
//	match 200 (2024-02-15): Dragon Slayers vs Moon Watch on Druid's Isle
//	match 300 (2024-03-20): Eternal Flame vs Moon Watch on Burning Isle
func (s *MemorialRepositorySuite) seedArchive() {
	s.insertGuild(1, "Dragon Slayers", "DRGN")
	s.insertGuild(2, "Eternal Flame", "EF")
	s.insertGuild(3, "Moon Watch", "MOON")

	s.insertMatch(100, "2024-01-10", 5, "Burning Isle", "Minion Apocalypse", "mAT Round 1", 1, 2, 1)
	s.insertMatch(200, "2024-02-15", 7, "Druid's Isle", "", "Daily", 1, 3, 3)
	s.insertMatch(300, "2024-03-20", 5, "Burning Isle", "Minion Apocalypse", "Daily", 2, 3, 2)

	// Match 100: 4 monks for guild 1, 3 monks + 1 warrior for guild 2.
	s.insertPlayer(100, 1, "Holy Light One", 1, profMonk)
	s.insertPlayer(100, 2, "Holy Light Two", 1, profMonk)
	s.insertPlayer(100, 3, "Holy Light Three", 1, profMonk)
	s.insertPlayer(100, 4, "Holy Light Four", 1, profMonk)
	s.insertPlayer(100, 5, "Flame Healer One", 2, profMonk)
	s.insertPlayer(100, 6, "Flame Healer Two", 2, profMonk)
	s.insertPlayer(100, 7, "Flame Healer Three", 2, profMonk)
	s.insertPlayer(100, 8, "Flame Axe", 2, profWarrior)

	// Match 200: mixed bars, one monk per side.
	s.insertPlayer(200, 1, "Holy Light One", 1, profMonk)
	s.insertPlayer(200, 2, "Dragon Archer", 1, profRanger)
	s.insertPlayer(200, 3, "Moon Caller", 3, profMonk)
	s.insertPlayer(200, 4, "Moon Hexer", 3, profMesmer)

	// Match 300: no monks at all.
	s.insertPlayer(300, 1, "Flame Axe", 2, profWarrior)
	s.insertPlayer(300, 2, "Flame Nuker", 2, profElementalist)
	s.insertPlayer(300, 3, "Moon Hexer", 3, profMesmer)
	s.insertPlayer(300, 4, "Moon Well", 3, profNecromancer)
}

func (s *MemorialRepositorySuite) matchIDs(matches []models.MemorialMatch) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	return ids
}

func (s *MemorialRepositorySuite) TestSearchNoFilters() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{})
	s.Require().NoError(err)

	// Newest first.
	s.Assert().Equal([]int64{300, 200, 100}, s.matchIDs(matches))

	total, err := s.repo.Count(ctx, models.MemorialFilters{})
	s.Require().NoError(err)
	s.Assert().Equal(3, total)
}

func (s *MemorialRepositorySuite) TestSearchDateRange() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{
		DateFrom: "2024-02-01",
		DateTo:   "2024-02-28",
	})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{200}, s.matchIDs(matches))

	// Boundary dates are inclusive.
	matches, err = s.repo.Search(ctx, models.MemorialFilters{
		DateFrom: "2024-01-10",
		DateTo:   "2024-03-20",
	})
	s.Require().NoError(err)
	s.Assert().Len(matches, 3)
}

func (s *MemorialRepositorySuite) TestSearchMapFluxOccasion() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{MapID: 5})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 100}, s.matchIDs(matches))

	matches, err = s.repo.Search(ctx, models.MemorialFilters{Flux: "Minion Apocalypse"})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 100}, s.matchIDs(matches))

	matches, err = s.repo.Search(ctx, models.MemorialFilters{Occasion: "Daily"})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 200}, s.matchIDs(matches))
}

func (s *MemorialRepositorySuite) TestSearchGuildEitherSide() {
	s.seedArchive()
	ctx := context.Background()

	// Moon Watch is guild2 in match 200 and guild2 in match 300.
	matches, err := s.repo.Search(ctx, models.MemorialFilters{GuildID: 3})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 200}, s.matchIDs(matches))

	// Dragon Slayers is guild1 in both its matches.
	matches, err = s.repo.Search(ctx, models.MemorialFilters{GuildID: 1})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{200, 100}, s.matchIDs(matches))
}

func (s *MemorialRepositorySuite) TestSearchText() {
	s.seedArchive()
	ctx := context.Background()

	// Guild name, case-insensitive.
	matches, err := s.repo.Search(ctx, models.MemorialFilters{Search: "DRAGON"})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{200, 100}, s.matchIDs(matches))

	// Guild tag.
	matches, err = s.repo.Search(ctx, models.MemorialFilters{Search: "moon"})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 200}, s.matchIDs(matches))

	// Participant name reaches matches the guild columns would not.
	matches, err = s.repo.Search(ctx, models.MemorialFilters{Search: "flame axe"})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 100}, s.matchIDs(matches))

	// No hits anywhere.
	matches, err = s.repo.Search(ctx, models.MemorialFilters{Search: "does not exist"})
	s.Require().NoError(err)
	s.Assert().Empty(matches)
}

func (s *MemorialRepositorySuite) TestSearchInjectionLiteral() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{Search: "'; DROP TABLE gvg_matches; --"})
	s.Require().NoError(err)
	s.Assert().Empty(matches)

	// The literal was bound, not interpolated.
	var count int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM gvg_matches`).Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(3, count)
}

func (s *MemorialRepositorySuite) TestSearchProfessionHeadcount() {
	s.seedArchive()
	ctx := context.Background()

	withMonks := func(minCount int) models.MemorialFilters {
		var f models.MemorialFilters
		f.Professions[0] = models.ProfessionSlot{Profession: profMonk, MinCount: minCount}
		return f
	}

	// At least 1 monk on some side: matches 100 and 200.
	matches, err := s.repo.Search(ctx, withMonks(1))
	s.Require().NoError(err)
	s.Assert().Equal([]int64{200, 100}, s.matchIDs(matches))

	// At least 3: only match 100, where both sides qualify.
	matches, err = s.repo.Search(ctx, withMonks(3))
	s.Require().NoError(err)
	s.Assert().Equal([]int64{100}, s.matchIDs(matches))

	// At least 4: still match 100, but now only guild 1 qualifies. The
	// headcount is per guild side, never pooled across the match.
	matches, err = s.repo.Search(ctx, withMonks(4))
	s.Require().NoError(err)
	s.Assert().Equal([]int64{100}, s.matchIDs(matches))

	// At least 5: no side ever fielded that many.
	matches, err = s.repo.Search(ctx, withMonks(5))
	s.Require().NoError(err)
	s.Assert().Empty(matches)

	total, err := s.repo.Count(ctx, withMonks(4))
	s.Require().NoError(err)
	s.Assert().Equal(1, total)
}

func (s *MemorialRepositorySuite) TestSearchMultipleProfessionSlots() {
	s.seedArchive()
	ctx := context.Background()

	// Monks and a warrior in the same match: only match 100.
	var f models.MemorialFilters
	f.Professions[0] = models.ProfessionSlot{Profession: profMonk, MinCount: 3}
	f.Professions[1] = models.ProfessionSlot{Profession: profWarrior, MinCount: 1}

	matches, err := s.repo.Search(ctx, f)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{100}, s.matchIDs(matches))

	// An unsatisfiable second slot empties the result.
	f.Professions[1] = models.ProfessionSlot{Profession: profRanger, MinCount: 2}
	matches, err = s.repo.Search(ctx, f)
	s.Require().NoError(err)
	s.Assert().Empty(matches)
}

func (s *MemorialRepositorySuite) TestSearchCombinedFilters() {
	s.seedArchive()
	ctx := context.Background()

	// Each added filter narrows the previous result.
	f := models.MemorialFilters{MapID: 5}
	matches, err := s.repo.Search(ctx, f)
	s.Require().NoError(err)
	s.Assert().Len(matches, 2)

	f.GuildID = 2
	matches, err = s.repo.Search(ctx, f)
	s.Require().NoError(err)
	s.Assert().Len(matches, 2)

	f.Professions[0] = models.ProfessionSlot{Profession: profMonk, MinCount: 3}
	matches, err = s.repo.Search(ctx, f)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{100}, s.matchIDs(matches))
}

func (s *MemorialRepositorySuite) TestSearchPagination() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{300, 200}, s.matchIDs(matches))

	matches, err = s.repo.Search(ctx, models.MemorialFilters{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{100}, s.matchIDs(matches))

	// Count ignores limit and offset.
	total, err := s.repo.Count(ctx, models.MemorialFilters{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Assert().Equal(3, total)
}

func (s *MemorialRepositorySuite) TestSearchProfessionAggregation() {
	s.seedArchive()
	ctx := context.Background()

	matches, err := s.repo.Search(ctx, models.MemorialFilters{DateTo: "2024-01-31"})
	s.Require().NoError(err)
	s.Require().Len(matches, 1)

	m := matches[0]
	s.Assert().Equal(int64(100), m.MatchID)
	s.Assert().Equal("Dragon Slayers", m.Guild1Name)
	s.Assert().Equal("EF", m.Guild2Tag)
	s.Assert().Equal(1, m.WinnerGuildID)
	s.Assert().Equal(8, m.TotalPlayers)
	s.Assert().ElementsMatch([]int{profMonk, profMonk, profMonk, profMonk}, m.Guild1Professions)
	s.Assert().ElementsMatch([]int{profMonk, profMonk, profMonk, profWarrior}, m.Guild2Professions)
}

func (s *MemorialRepositorySuite) TestFilterOptionLists() {
	s.seedArchive()
	ctx := context.Background()

	occasions, err := s.repo.Occasions(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Daily", "mAT Round 1"}, occasions)

	// Empty flux values are dropped.
	fluxes, err := s.repo.Fluxes(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Minion Apocalypse"}, fluxes)

	maps, err := s.repo.Maps(ctx)
	s.Require().NoError(err)
	s.Require().Len(maps, 2)
	s.Assert().Equal("Burning Isle", maps[0].Name)
	s.Assert().Equal(5, maps[0].ID)
}

func (s *MemorialRepositorySuite) TestGuildDirectory() {
	s.seedArchive()
	ctx := context.Background()

	// Unfiltered: alphabetical.
	guilds, err := s.repo.GuildDirectory(ctx, "")
	s.Require().NoError(err)
	s.Require().Len(guilds, 3)
	s.Assert().Equal("Dragon Slayers", guilds[0].Name)
	s.Assert().Equal("Eternal Flame", guilds[1].Name)
	s.Assert().Equal("Moon Watch", guilds[2].Name)

	// Filtered: case-insensitive over name and tag, ranked by match count.
	guilds, err = s.repo.GuildDirectory(ctx, "drag")
	s.Require().NoError(err)
	s.Require().Len(guilds, 1)
	s.Assert().Equal("Dragon Slayers", guilds[0].Name)
	s.Assert().Equal(2, guilds[0].MatchCount)

	guilds, err = s.repo.GuildDirectory(ctx, "EF")
	s.Require().NoError(err)
	s.Require().Len(guilds, 1)
	s.Assert().Equal("Eternal Flame", guilds[0].Name)
}

func TestMemorialRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemorialRepositorySuite))
}
