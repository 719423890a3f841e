package services

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

func (s *ServiceTestSuite) TestVolunteerDashboard() {
	now := time.Now()
	s.dashboards.now = func() time.Time { return now }

	s.openTask("Go only", models.UrgencyLow, 1, "go")
	best := s.openTask("Go and SQL", models.UrgencyHigh, 1, "go", "sql")
	active := s.openTask("Already applied", models.UrgencyHigh, 1, "go", "sql")
	done := s.openTask("Finished", models.UrgencyLow, 1, "go")

	app := s.apply(active, s.techie)
	_, err := s.apps.AcceptApplication(app.ID, s.owner.ID, app.Version)
	s.Require().NoError(err)
	_, err = s.tasks.SetTaskStatus(s.ctx, active.ID, s.owner.ID, models.TaskInProgress, active.Version)
	s.Require().NoError(err)

	doneApp := s.apply(done, s.techie)
	_, err = s.apps.AcceptApplication(doneApp.ID, s.owner.ID, doneApp.Version)
	s.Require().NoError(err)
	started, err := s.tasks.SetTaskStatus(s.ctx, done.ID, s.owner.ID, models.TaskInProgress, done.Version)
	s.Require().NoError(err)
	_, err = s.tasks.SetTaskStatus(s.ctx, done.ID, s.owner.ID, models.TaskCompleted, started.Version)
	s.Require().NoError(err)

	d, err := s.dashboards.GetDashboard(s.techie.ID)
	s.Require().NoError(err)

	s.Equal(models.AccountVolunteer, d.Role)
	s.Len(d.Tasks, 2)
	s.Equal(best.Title, d.Recommended.Title)
	s.Equal(int64(1), d.CharitiesHelped)

	s.Require().Len(d.InProgress, 1)
	s.Equal(active.ID, d.InProgress[0].ID)
	s.Require().Len(d.Completed, 1)
	s.Equal(done.ID, d.Completed[0].ID)
	s.Empty(d.NotStarted)
	s.Require().Len(d.NearingDeadline, 1)
	s.Equal(active.ID, d.NearingDeadline[0].ID)
}

func (s *ServiceTestSuite) TestVolunteerDashboard_NoMatches() {
	s.openTask("Design", models.UrgencyHigh, 1, "figma")

	d, err := s.dashboards.GetDashboard(s.techie.ID)
	s.Require().NoError(err)
	s.Nil(d.Recommended.Task)
	s.Equal(constants.NoMatchingTasks, d.Recommended.Title)
	s.Empty(d.Tasks)
}

func (s *ServiceTestSuite) TestCharityDashboard() {
	quiet := s.openTask("Quiet", models.UrgencyLow, 1)
	popular := s.openTask("Popular", models.UrgencyLow, 3)
	other := s.signup("Other Techie", "other@example.org", models.AccountVolunteer)

	s.apply(quiet, s.techie)
	first := s.apply(popular, s.techie)
	second := s.apply(popular, other)
	for _, app := range []*models.Application{first, second} {
		_, err := s.apps.AcceptApplication(app.ID, s.owner.ID, app.Version)
		s.Require().NoError(err)
	}
	started, err := s.tasks.SetTaskStatus(s.ctx, popular.ID, s.owner.ID, models.TaskInProgress, popular.Version)
	s.Require().NoError(err)
	_, err = s.tasks.SetTaskStatus(s.ctx, popular.ID, s.owner.ID, models.TaskCompleted, started.Version)
	s.Require().NoError(err)

	d, err := s.dashboards.GetDashboard(s.owner.ID)
	s.Require().NoError(err)

	s.Equal(models.AccountCharity, d.Role)
	s.Len(d.Tasks, 2)
	s.Equal("Popular", d.Recommended.Title)
	s.Equal(int64(2), d.VolunteersHelped)
	s.Len(d.NotStarted, 1)
	s.Len(d.Completed, 1)
	s.Require().Len(d.NearingDeadline, 1)
	s.Equal(quiet.ID, d.NearingDeadline[0].ID)
}

func (s *ServiceTestSuite) TestCharityDashboard_WithoutCharities() {
	loner := s.signup("Loner", "loner@example.org", models.AccountCharity)

	d, err := s.dashboards.GetDashboard(loner.ID)
	s.Require().NoError(err)
	s.Equal(constants.NoActiveTasks, d.Recommended.Title)
	s.Empty(d.Tasks)
}

func (s *ServiceTestSuite) TestDashboard_UnknownUser() {
	_, err := s.dashboards.GetDashboard(9999)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceTestSuite) TestFillSections_NearingDeadlineWindow() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.dashboards.now = func() time.Time { return now }

	d := &Dashboard{}
	s.dashboards.fillSections(d, []models.Task{
		{ID: 1, Status: models.TaskNotStarted, Deadline: now.Add(6 * 24 * time.Hour)},
		{ID: 2, Status: models.TaskInProgress, Deadline: now.Add(time.Hour)},
		{ID: 3, Status: models.TaskCompleted, Deadline: now.Add(2 * time.Hour)},
		{ID: 4, Status: models.TaskNotStarted, Deadline: now.Add(8 * 24 * time.Hour)},
		{ID: 5, Status: models.TaskNotStarted, Deadline: now.Add(-time.Hour)},
		{ID: 6, Status: models.TaskCancelled, Deadline: now.Add(3 * time.Hour)},
		{ID: 7, Status: models.TaskNotStarted, Deadline: now.Add(7*24*time.Hour + 20*time.Hour)},
	})

	var ids []uint64
	for _, t := range d.NearingDeadline {
		ids = append(ids, t.ID)
	}
	s.Equal([]uint64{2, 6, 1, 7}, ids)
	s.Len(d.NotStarted, 4)
	s.Len(d.InProgress, 1)
	s.Len(d.Completed, 1)
}
