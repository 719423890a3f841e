package services

import (
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

// lookupMissesRepository never finds an existing application, as when two
// applies race past the duplicate check.
type lookupMissesRepository struct {
	repository.ApplicationRepository
}

func (lookupMissesRepository) FindByTaskAndUser(uint64, uint64) (*models.Application, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *ServiceTestSuite) TestApply() {
	task := s.openTask("Website", models.UrgencyLow, 1)

	app, err := s.apps.Apply(task.ID, s.techie.ID, "  I can help  ")
	s.Require().NoError(err)
	s.Equal(models.ApplicationPending, app.Status)
	s.Equal("I can help", app.Message)
	s.Equal(s.charity.ID, *app.CharityID)

	_, err = s.apps.Apply(task.ID, s.techie.ID, "")
	s.ErrorIs(err, ErrAlreadyApplied)

	_, err = s.apps.Apply(9999, s.techie.ID, "")
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *ServiceTestSuite) TestApply_DuplicateInsertIsAlreadyApplied() {
	task := s.openTask("Racing", models.UrgencyLow, 1)
	s.apply(task, s.techie)

	apps := NewApplicationService(lookupMissesRepository{s.appRepo}, s.taskRepo, s.charityRepo, false)
	_, err := apps.Apply(task.ID, s.techie.ID, "")
	s.ErrorIs(err, ErrAlreadyApplied)
}

func (s *ServiceTestSuite) TestApply_ClosedTask() {
	task := s.openTask("Closed", models.UrgencyLow, 1)
	_, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskCancelled, task.Version)
	s.Require().NoError(err)

	_, err = s.apps.Apply(task.ID, s.techie.ID, "")
	s.ErrorIs(err, ErrTaskNotOpen)
}

func (s *ServiceTestSuite) TestAccept_OverCapacityAllowedByDefault() {
	task := s.openTask("One seat", models.UrgencyLow, 1)
	other := s.signup("Other Techie", "other@example.org", models.AccountVolunteer)

	first := s.apply(task, s.techie)
	second := s.apply(task, other)

	_, err := s.apps.AcceptApplication(first.ID, s.coordinator.ID, first.Version)
	s.Require().NoError(err)
	accepted, err := s.apps.AcceptApplication(second.ID, s.coordinator.ID, second.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationAccepted, accepted.Status)

	count, err := s.appRepo.CountAccepted(task.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *ServiceTestSuite) TestAccept_CapacityEnforced() {
	s.apps = NewApplicationService(s.appRepo, s.taskRepo, s.charityRepo, true)
	task := s.openTask("One seat", models.UrgencyLow, 1)
	other := s.signup("Other Techie", "other@example.org", models.AccountVolunteer)

	first := s.apply(task, s.techie)
	second := s.apply(task, other)

	first, err := s.apps.AcceptApplication(first.ID, s.coordinator.ID, first.Version)
	s.Require().NoError(err)
	_, err = s.apps.AcceptApplication(second.ID, s.coordinator.ID, second.Version)
	s.ErrorIs(err, ErrCapacityReached)

	// Removing a volunteer frees the seat.
	_, err = s.apps.RemoveVolunteer(first.ID, s.coordinator.ID, first.Version)
	s.Require().NoError(err)
	_, err = s.apps.AcceptApplication(second.ID, s.coordinator.ID, second.Version)
	s.NoError(err)
}

func (s *ServiceTestSuite) TestAccept_UnlimitedWhenNoVolunteersNeeded() {
	s.apps = NewApplicationService(s.appRepo, s.taskRepo, s.charityRepo, true)
	task := s.openTask("Open ended", models.UrgencyLow, 0)
	other := s.signup("Other Techie", "other@example.org", models.AccountVolunteer)

	for _, user := range []*models.User{s.techie, other} {
		app := s.apply(task, user)
		_, err := s.apps.AcceptApplication(app.ID, s.owner.ID, app.Version)
		s.Require().NoError(err)
	}
}

func (s *ServiceTestSuite) TestAccept_RequiresManagerRole() {
	task := s.openTask("Guarded", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	_, err := s.apps.AcceptApplication(app.ID, s.techie.ID, app.Version)
	s.ErrorIs(err, ErrApplicationPermissionDenied)
}

func (s *ServiceTestSuite) TestAccept_StaleVersionConflicts() {
	task := s.openTask("Race", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	_, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)
	_, err = s.apps.UndoApplicationStatus(app.ID, s.techie.ID, app.Version+1)
	s.Require().NoError(err)

	_, err = s.apps.AcceptApplication(app.ID, s.coordinator.ID, app.Version)
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestReject_OnlyFromPending() {
	task := s.openTask("Reject me", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	app, err := s.apps.AcceptApplication(app.ID, s.coordinator.ID, app.Version)
	s.Require().NoError(err)

	_, err = s.apps.RejectApplication(app.ID, s.coordinator.ID, app.Version)
	var terr *models.TransitionError
	s.Require().ErrorAs(err, &terr)
	s.Equal("ACCEPTED", terr.From)

	removed, err := s.apps.RemoveVolunteer(app.ID, s.coordinator.ID, app.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationRejected, removed.Status)
}

func (s *ServiceTestSuite) TestWithdraw_IsIdempotent() {
	task := s.openTask("Withdraw", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	withdrawn, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationWithdrawn, withdrawn.Status)

	again, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationWithdrawn, again.Status)
	s.Equal(withdrawn.Version, again.Version)
}

func (s *ServiceTestSuite) TestWithdraw_OnlyApplicant() {
	task := s.openTask("Mine", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	_, err := s.apps.WithdrawApplication(app.ID, s.owner.ID, app.Version)
	s.ErrorIs(err, ErrApplicationPermissionDenied)
}

func (s *ServiceTestSuite) TestUndo() {
	task := s.openTask("Undo", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	rejected, err := s.apps.RejectApplication(app.ID, s.coordinator.ID, app.Version)
	s.Require().NoError(err)

	_, err = s.apps.UndoApplicationStatus(app.ID, s.techie.ID, rejected.Version)
	s.ErrorIs(err, ErrApplicationPermissionDenied)

	pending, err := s.apps.UndoApplicationStatus(app.ID, s.coordinator.ID, rejected.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationPending, pending.Status)

	withdrawn, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, pending.Version)
	s.Require().NoError(err)
	pending, err = s.apps.UndoApplicationStatus(app.ID, s.techie.ID, withdrawn.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationPending, pending.Status)
}

func (s *ServiceTestSuite) TestUndo_PendingIsNoOpForApplicant() {
	task := s.openTask("Undo pending", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	same, err := s.apps.UndoApplicationStatus(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)
	s.Equal(models.ApplicationPending, same.Status)
	s.Equal(app.Version, same.Version)

	same, err = s.apps.UndoApplicationStatus(app.ID, s.coordinator.ID, app.Version)
	s.Require().NoError(err)
	s.Equal(app.Version, same.Version)
}

func (s *ServiceTestSuite) TestUndo_RequiresOpenTask() {
	task := s.openTask("Undo closed", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	withdrawn, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)
	_, err = s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskCancelled, task.Version)
	s.Require().NoError(err)

	_, err = s.apps.UndoApplicationStatus(app.ID, s.techie.ID, withdrawn.Version)
	s.ErrorIs(err, ErrTaskNotOpen)

	current, err := s.apps.GetApplication(app.ID, s.techie.ID)
	s.Require().NoError(err)
	s.Equal(models.ApplicationWithdrawn, current.Status)
}

func (s *ServiceTestSuite) TestDeleteApplication() {
	task := s.openTask("Delete", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)

	s.ErrorIs(s.apps.DeleteApplication(app.ID, s.techie.ID, app.Version), ErrApplicationNotDeletable)

	withdrawn, err := s.apps.WithdrawApplication(app.ID, s.techie.ID, app.Version)
	s.Require().NoError(err)

	s.ErrorIs(s.apps.DeleteApplication(app.ID, s.owner.ID, withdrawn.Version), ErrApplicationPermissionDenied)
	s.ErrorIs(s.apps.DeleteApplication(app.ID, s.techie.ID, app.Version), ErrConflict)
	s.Require().NoError(s.apps.DeleteApplication(app.ID, s.techie.ID, withdrawn.Version))

	_, err = s.apps.GetApplication(app.ID, s.techie.ID)
	s.ErrorIs(err, ErrApplicationNotFound)
}

func (s *ServiceTestSuite) TestListMyApplications() {
	low := s.openTask("Low", models.UrgencyLow, 1, "go")
	high := s.openTask("High", models.UrgencyHigh, 1, "go")
	s.openTask("Not applied", models.UrgencyHigh, 1, "go")
	s.apply(low, s.techie)
	s.apply(high, s.techie)

	apps, total, err := s.apps.ListMyApplications(s.techie.ID, facets.Selection{Urgency: models.UrgencyHigh}, utils.NewOffsetPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("High", apps[0].Task.Title)

	apps, total, err = s.apps.ListMyApplications(s.techie.ID, facets.Selection{}, utils.NewOffsetPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal("High", apps[0].Task.Title)
}

func (s *ServiceTestSuite) TestListTaskApplications() {
	task := s.openTask("Listed", models.UrgencyLow, 1)
	s.apply(task, s.techie)

	apps, err := s.apps.ListTaskApplications(task.ID, s.coordinator.ID)
	s.Require().NoError(err)
	s.Len(apps, 1)

	_, err = s.apps.ListTaskApplications(task.ID, s.techie.ID)
	s.ErrorIs(err, ErrApplicationPermissionDenied)
}

func (s *ServiceTestSuite) TestGetApplication_Visibility() {
	task := s.openTask("Visible", models.UrgencyLow, 1)
	app := s.apply(task, s.techie)
	stranger := s.signup("Stranger", "stranger@example.org", models.AccountVolunteer)

	_, err := s.apps.GetApplication(app.ID, s.techie.ID)
	s.NoError(err)
	_, err = s.apps.GetApplication(app.ID, s.coordinator.ID)
	s.NoError(err)
	_, err = s.apps.GetApplication(app.ID, stranger.ID)
	s.ErrorIs(err, ErrApplicationPermissionDenied)
}
