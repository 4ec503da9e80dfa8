package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository/sqlite"
	"github.com/gwarchivist/gwarchivist/internal/services"
	"github.com/gwarchivist/gwarchivist/internal/testutil"
)

type MemorialServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc services.MemorialService
}

func (s *MemorialServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewMemorialService(sqlite.NewMemorialRepository(s.db, 1000, 100))
}

func (s *MemorialServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *MemorialServiceSuite) seedMatches(n int) {
	_, err := s.db.Exec(`INSERT INTO guilds (id, name, tag) VALUES (1, 'Dragon Slayers', 'DRGN'), (2, 'Eternal Flame', 'EF')`)
	s.Require().NoError(err)

	for i := 0; i < n; i++ {
		_, err := s.db.Exec(`
			INSERT INTO gvg_matches (match_id, match_date, map_id, map_name, occasion,
				guild1_id, guild1_name, guild1_tag, guild2_id, guild2_name, guild2_tag)
			VALUES (?, ?, 5, 'Burning Isle', 'Daily', 1, 'Dragon Slayers', 'DRGN', 2, 'Eternal Flame', 'EF')
		`, 100+i, "2024-01-10")
		s.Require().NoError(err)
	}
}

func (s *MemorialServiceSuite) TestSearchEmptyArchive() {
	resp, err := s.svc.Search(context.Background(), models.MemorialFilters{})
	s.Require().NoError(err)

	// An empty archive still answers with a well-formed page.
	s.Assert().NotNil(resp.Matches)
	s.Assert().Empty(resp.Matches)
	s.Assert().Zero(resp.Pagination.Total)
	s.Assert().False(resp.Pagination.HasMore)
	s.Assert().Equal(models.DefaultSearchLimit, resp.Pagination.Limit)
}

func (s *MemorialServiceSuite) TestSearchPaginationContract() {
	s.seedMatches(7)

	resp, err := s.svc.Search(context.Background(), models.MemorialFilters{Limit: 3})
	s.Require().NoError(err)
	s.Assert().Len(resp.Matches, 3)
	s.Assert().Equal(7, resp.Pagination.Total)
	s.Assert().True(resp.Pagination.HasMore)

	resp, err = s.svc.Search(context.Background(), models.MemorialFilters{Limit: 3, Offset: 6})
	s.Require().NoError(err)
	s.Assert().Len(resp.Matches, 1)
	s.Assert().Equal(7, resp.Pagination.Total)
	s.Assert().False(resp.Pagination.HasMore)

	// The total always reflects the filtered set, not the page.
	resp, err = s.svc.Search(context.Background(), models.MemorialFilters{Limit: 3, Occasion: "mAT"})
	s.Require().NoError(err)
	s.Assert().Empty(resp.Matches)
	s.Assert().Zero(resp.Pagination.Total)
}

func (s *MemorialServiceSuite) TestAllOptions() {
	s.seedMatches(2)

	opts, err := s.svc.AllOptions(context.Background(), "")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Daily"}, opts.Occasions)
	s.Require().Len(opts.Maps, 1)
	s.Assert().Equal("Burning Isle", opts.Maps[0].Name)
	s.Assert().Len(opts.Guilds, 2)
}

func TestMemorialServiceSuite(t *testing.T) {
	suite.Run(t, new(MemorialServiceSuite))
}
