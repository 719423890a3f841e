package services

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

func (s *ServiceTestSuite) TestCreateTask_MissingFieldsStayIncomplete() {
	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		Title:     "Fix the donation form",
		Skills:    []string{"javascript", " ", "javascript"},
		CharityID: &s.charity.ID,
		CreatorID: s.coordinator.ID,
	})
	s.Require().NoError(err)

	s.Equal(models.TaskIncomplete, task.Status)
	s.Equal(models.UrgencyLow, task.Urgency)
	s.Equal(uint64(1), task.Version)
	s.Equal([]string{"javascript"}, task.RequiredSkills())
	s.Contains(s.engine.docs, "tasks/"+search.DocumentID(task.ID))
}

func (s *ServiceTestSuite) TestCreateTask_CompleteTaskOpens() {
	task := s.openTask("Build a volunteer rota", models.UrgencyHigh, 2, "go")
	s.Equal(models.TaskNotStarted, task.Status)
	s.Equal(s.owner.ID, task.Creator.ID)
}

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	_, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "  ", CharityID: &s.charity.ID, CreatorID: s.owner.ID})
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "No charity", CreatorID: s.owner.ID})
	s.ErrorIs(err, ErrCharityRequired)

	_, err = s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "Odd urgency", Urgency: "URGENT", CharityID: &s.charity.ID, CreatorID: s.owner.ID})
	s.ErrorIs(err, ErrInvalidUrgency)

	_, err = s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "Negative", VolunteersNeeded: -1, CharityID: &s.charity.ID, CreatorID: s.owner.ID})
	s.ErrorIs(err, ErrInvalidVolunteersNeeded)
}

func (s *ServiceTestSuite) TestCreateTask_RequiresEditorRole() {
	_, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "Sneaky", CharityID: &s.charity.ID, CreatorID: s.techie.ID})
	s.ErrorIs(err, ErrTaskPermissionDenied)
}

func (s *ServiceTestSuite) TestUpdateTask_OpensDraftOnceComplete() {
	draft, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "Draft", CharityID: &s.charity.ID, CreatorID: s.owner.ID})
	s.Require().NoError(err)

	description := "Migrate the mailing list"
	impact := "Donors hear from us"
	deadline := time.Now().Add(48 * time.Hour)
	skills := []string{"python"}
	updated, err := s.tasks.UpdateTask(s.ctx, draft.ID, s.coordinator.ID, UpdateTaskInput{
		Version:     draft.Version,
		Description: &description,
		Impact:      &impact,
		Deadline:    &deadline,
		Skills:      &skills,
	})
	s.Require().NoError(err)

	s.Equal(models.TaskNotStarted, updated.Status)
	s.Equal(draft.Version+1, updated.Version)
	s.Equal([]string{"python"}, updated.RequiredSkills())
}

func (s *ServiceTestSuite) TestUpdateTask_StaleVersionConflicts() {
	task := s.openTask("Website", models.UrgencyLow, 1)

	title := "Website v2"
	_, err := s.tasks.UpdateTask(s.ctx, task.ID, s.owner.ID, UpdateTaskInput{Version: task.Version, Title: &title})
	s.Require().NoError(err)

	title = "Website v3"
	_, err = s.tasks.UpdateTask(s.ctx, task.ID, s.owner.ID, UpdateTaskInput{Version: task.Version, Title: &title})
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestUpdateTask_KeepsSkillsWhenNotGiven() {
	task := s.openTask("Keep skills", models.UrgencyLow, 1, "go", "sql")

	title := "Renamed"
	updated, err := s.tasks.UpdateTask(s.ctx, task.ID, s.owner.ID, UpdateTaskInput{Version: task.Version, Title: &title})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Title)
	s.Equal([]string{"go", "sql"}, updated.RequiredSkills())
}

func (s *ServiceTestSuite) TestUpdateTask_PermissionDenied() {
	task := s.openTask("Locked", models.UrgencyLow, 1)

	title := "Hijacked"
	_, err := s.tasks.UpdateTask(s.ctx, task.ID, s.techie.ID, UpdateTaskInput{Version: task.Version, Title: &title})
	s.ErrorIs(err, ErrTaskPermissionDenied)
}

func (s *ServiceTestSuite) TestSetTaskStatus_FollowsStateMachine() {
	task := s.openTask("Lifecycle", models.UrgencyLow, 1)

	started, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.coordinator.ID, models.TaskInProgress, task.Version)
	s.Require().NoError(err)
	s.Equal(models.TaskInProgress, started.Status)
	s.Equal(task.Version+1, started.Version)

	done, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.coordinator.ID, models.TaskCompleted, started.Version)
	s.Require().NoError(err)
	s.Equal(models.TaskCompleted, done.Status)

	_, err = s.tasks.SetTaskStatus(s.ctx, task.ID, s.coordinator.ID, models.TaskInProgress, done.Version)
	var terr *models.TransitionError
	s.Require().ErrorAs(err, &terr)
	s.False(terr.Unknown)
	s.Equal("COMPLETED", terr.From)
}

func (s *ServiceTestSuite) TestSetTaskStatus_SameStatusIsNoop() {
	task := s.openTask("Noop", models.UrgencyLow, 1)

	same, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskNotStarted, task.Version+10)
	s.Require().NoError(err)
	s.Equal(task.Version, same.Version)
}

func (s *ServiceTestSuite) TestSetTaskStatus_StaleVersionConflicts() {
	task := s.openTask("Race", models.UrgencyLow, 1)

	_, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskInProgress, task.Version)
	s.Require().NoError(err)

	_, err = s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskCancelled, task.Version)
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestSetTaskStatus_UnknownStatus() {
	task := s.openTask("Unknown", models.UrgencyLow, 1)

	_, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.owner.ID, models.TaskStatus("ARCHIVED"), task.Version)
	var terr *models.TransitionError
	s.Require().ErrorAs(err, &terr)
	s.True(terr.Unknown)
}

func (s *ServiceTestSuite) TestSetTaskStatus_IncompleteCannotOpen() {
	draft, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Title: "Draft", CharityID: &s.charity.ID, CreatorID: s.owner.ID})
	s.Require().NoError(err)

	_, err = s.tasks.SetTaskStatus(s.ctx, draft.ID, s.owner.ID, models.TaskNotStarted, draft.Version)
	s.ErrorIs(err, ErrTaskIncomplete)

	cancelled, err := s.tasks.SetTaskStatus(s.ctx, draft.ID, s.owner.ID, models.TaskCancelled, draft.Version)
	s.Require().NoError(err)
	s.Equal(models.TaskCancelled, cancelled.Status)
}

func (s *ServiceTestSuite) TestSetTaskStatus_RequiresManagerRole() {
	task := s.openTask("Managed", models.UrgencyLow, 1)

	_, err := s.tasks.SetTaskStatus(s.ctx, task.ID, s.techie.ID, models.TaskInProgress, task.Version)
	s.ErrorIs(err, ErrTaskPermissionDenied)
}

func (s *ServiceTestSuite) TestDeleteTask() {
	task := s.openTask("Short lived", models.UrgencyLow, 1)
	s.apply(task, s.techie)

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, task.ID, s.coordinator.ID), ErrTaskPermissionDenied)
	s.Require().NoError(s.tasks.DeleteTask(s.ctx, task.ID, s.owner.ID))

	_, err := s.tasks.GetTask(task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	s.Contains(s.engine.deleted, "tasks/"+search.DocumentID(task.ID))

	ids, err := s.appRepo.ListTaskIDsByUser(s.techie.ID)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *ServiceTestSuite) TestExploreTasks() {
	s.openTask("Go API", models.UrgencyHigh, 1, "go")
	s.openTask("Spreadsheet", models.UrgencyLow, 1, "excel")

	tasks, total, err := s.tasks.ExploreTasks(facets.Selection{Skills: []string{"go"}}, utils.NewOffsetPage(1, 12))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Go API", tasks[0].Title)

	_, _, err = s.tasks.ExploreTasks(facets.Selection{Status: "ARCHIVED"}, utils.NewOffsetPage(1, 12))
	s.ErrorIs(err, facets.ErrInvalidFacet)
}

func (s *ServiceTestSuite) TestListCharityTasks_CursorPages() {
	first := s.openTask("First", models.UrgencyLow, 1)
	second := s.openTask("Second", models.UrgencyLow, 1)
	third := s.openTask("Third", models.UrgencyLow, 1)

	page, err := utils.NewCursorPage("", 2)
	s.Require().NoError(err)
	tasks, meta, err := s.tasks.ListCharityTasks(s.charity.ID, page)
	s.Require().NoError(err)
	s.Equal([]uint64{third.ID, second.ID}, []uint64{tasks[0].ID, tasks[1].ID})
	s.True(meta.HasMore)
	s.NotEmpty(meta.NextCursor)

	page, err = utils.NewCursorPage(meta.NextCursor, 2)
	s.Require().NoError(err)
	tasks, meta, err = s.tasks.ListCharityTasks(s.charity.ID, page)
	s.Require().NoError(err)
	s.Len(tasks, 1)
	s.Equal(first.ID, tasks[0].ID)
	s.False(meta.HasMore)
}
