package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gwarchivist/gwarchivist/internal/repository"
	"github.com/gwarchivist/gwarchivist/internal/repository/sqlite"
	"github.com/gwarchivist/gwarchivist/internal/testutil"
)

type GuildRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.GuildRepository
}

func (s *GuildRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewGuildRepository(s.db)
}

func (s *GuildRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *GuildRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, "dragon-slayers", "Dragon Slayers", "DRGN")
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	g, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("Dragon Slayers", g.Name)
	s.Assert().Equal("DRGN", g.Tag)
	s.Assert().Equal("dragon-slayers", g.Key)

	g, err = s.repo.GetByName(ctx, "Dragon Slayers")
	s.Require().NoError(err)
	s.Require().NotNil(g)
	s.Assert().Equal(id, g.ID)

	g, err = s.repo.GetByKey(ctx, "dragon-slayers")
	s.Require().NoError(err)
	s.Require().NotNil(g)
	s.Assert().Equal(id, g.ID)
}

func (s *GuildRepositorySuite) TestGetByNameMissing() {
	g, err := s.repo.GetByName(context.Background(), "Nobody Home")
	s.Require().NoError(err)
	s.Assert().Nil(g)
}

func (s *GuildRepositorySuite) TestResolve() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, "", "Eternal Flame", "EF")
	s.Require().NoError(err)

	// Numeric references resolve by id.
	g, err := s.repo.Resolve(ctx, "1")
	s.Require().NoError(err)
	s.Assert().Equal(id, g.ID)

	// Name match wins over tag match.
	g, err = s.repo.Resolve(ctx, "Eternal Flame")
	s.Require().NoError(err)
	s.Assert().Equal(id, g.ID)

	g, err = s.repo.Resolve(ctx, "EF")
	s.Require().NoError(err)
	s.Assert().Equal(id, g.ID)
}

func (s *GuildRepositorySuite) TestList() {
	ctx := context.Background()

	for _, g := range []struct{ name, tag string }{
		{"Dragon Slayers", "DRGN"},
		{"Eternal Flame", "EF"},
		{"Moon Watch", "MOON"},
	} {
		_, err := s.repo.Insert(ctx, "", g.name, g.tag)
		s.Require().NoError(err)
	}

	// Newest first.
	guilds, err := s.repo.List(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(guilds, 2)
	s.Assert().Equal("Moon Watch", guilds[0].Name)
	s.Assert().Equal("Eternal Flame", guilds[1].Name)
}

func TestGuildRepositorySuite(t *testing.T) {
	suite.Run(t, new(GuildRepositorySuite))
}

type PseudoRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PseudoRepository
}

func (s *PseudoRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPseudoRepository(s.db)
}

func (s *PseudoRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PseudoRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, "Holy Light One", nil)
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	p, err := s.repo.Get(ctx, "Holy Light One")
	s.Require().NoError(err)
	s.Assert().Equal(id, p.ID)
	s.Assert().Equal("Holy Light One", p.Pseudo)
	s.Assert().Nil(p.UserID)
}

func (s *PseudoRepositorySuite) TestUpsertIsIdempotent() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, "Holy Light One")
	s.Require().NoError(err)

	second, err := s.repo.Upsert(ctx, "Holy Light One")
	s.Require().NoError(err)
	s.Assert().Equal(first, second)

	var count int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM pseudos`).Scan(&count))
	s.Assert().Equal(1, count)
}

func TestPseudoRepositorySuite(t *testing.T) {
	suite.Run(t, new(PseudoRepositorySuite))
}
