package services

import (
	"errors"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
)

func (s *ServiceTestSuite) TestSearch_ValidatesInput() {
	_, err := s.searches.Search(s.ctx, "   ", nil)
	s.ErrorIs(err, ErrSearchQueryRequired)

	_, err = s.searches.Search(s.ctx, "food", []string{"tasks", "donations"})
	s.ErrorIs(err, ErrInvalidCollection)
}

func (s *ServiceTestSuite) TestSearch_DefaultsToAllCollections() {
	s.engine.hits = []search.Hit{{Collection: search.CollectionTasks, ID: "1"}}

	hits, err := s.searches.Search(s.ctx, "food", nil)
	s.Require().NoError(err)
	s.Len(hits, 1)
	s.Equal(search.AllCollections, s.engine.searched)

	_, err = s.searches.Search(s.ctx, "food", []string{" Users ", "users", "charities"})
	s.Require().NoError(err)
	s.Equal([]search.Collection{search.CollectionUsers, search.CollectionCharities}, s.engine.searched)
}

func (s *ServiceTestSuite) TestSearch_Unavailable() {
	searches := NewSearchService(search.Disabled{}, s.taskRepo, s.appRepo, s.charityRepo, s.userRepo)

	_, err := searches.Search(s.ctx, "food", nil)
	s.True(errors.Is(err, search.ErrUnavailable))
}

func (s *ServiceTestSuite) TestSearchMyApplications_RestrictsToAppliedTasks() {
	applied := s.openTask("Applied", models.UrgencyLow, 1)
	s.openTask("Ignored", models.UrgencyLow, 1)
	s.apply(applied, s.techie)

	_, err := s.searches.SearchMyApplications(s.ctx, s.techie.ID, "applied")
	s.Require().NoError(err)
	s.Equal([]string{search.DocumentID(applied.ID)}, s.engine.withinIDs)

	hits, err := s.searches.SearchMyApplications(s.ctx, s.owner.ID, "anything")
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *ServiceTestSuite) TestReindex() {
	s.openTask("One", models.UrgencyLow, 1)
	s.openTask("Two", models.UrgencyLow, 1)
	s.engine.docs = make(map[string]interface{})

	stats, err := s.searches.Reindex(s.ctx)
	s.Require().NoError(err)
	s.Equal(ReindexStats{Tasks: 2, Charities: 1, Users: 3}, stats)
	s.Len(s.engine.docs, 6)

	for _, doc := range s.engine.docs {
		if user, ok := doc.(search.UserDocument); ok {
			s.NotEmpty(user.Name)
		}
	}
}

func (s *ServiceTestSuite) TestReindex_StopsOnFailure() {
	s.openTask("One", models.UrgencyLow, 1)
	s.engine.failWrites = errors.New("index closed")

	_, err := s.searches.Reindex(s.ctx)
	s.Error(err)
}

func (s *ServiceTestSuite) TestIndexFailuresDoNotFailWrites() {
	s.engine.failWrites = errors.New("index closed")

	task := s.openTask("Still saved", models.UrgencyLow, 1)
	s.NotZero(task.ID)
}
