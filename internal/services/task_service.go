package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrTaskPermissionDenied    = errors.New("user does not have permission to modify this task")
	ErrCharityRequired         = errors.New("charity_id is required")
	ErrTitleRequired           = errors.New("title is required")
	ErrTitleEmpty              = errors.New("title cannot be empty")
	ErrInvalidUrgency          = errors.New("urgency must be LOW, MEDIUM or HIGH")
	ErrInvalidVolunteersNeeded = errors.New("volunteers_needed cannot be negative")
	ErrTaskIncomplete          = errors.New("title, description, impact and deadline are required before a task can open")
	ErrAIServiceNotConfigured  = errors.New("AI service is not configured")
	ErrAINoTasksGenerated      = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks          = errors.New("no valid tasks could be created from AI output")
)

// taskPreloads are the relations returned with a single task.
var taskPreloads = []string{"Skills", "Categories", "Charity", "Creator"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	charityRepo repository.CharityRepository
	indexer     search.Engine
	aiService   *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, charityRepo repository.CharityRepository, indexer search.Engine, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		charityRepo: charityRepo,
		indexer:     indexer,
		aiService:   aiService,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title            string
	Description      string
	Impact           string
	Urgency          models.TaskUrgency
	Deadline         *time.Time
	VolunteersNeeded int
	Skills           []string
	Categories       []string
	Deliverables     []string
	Resources        []models.Resource
	Location         *models.Location
	CharityID        *uint64
	CreatorID        uint64
}

// UpdateTaskInput represents input for updating a task. Version is the
// version the caller read; nil fields are left as is.
type UpdateTaskInput struct {
	Version          uint64
	Title            *string
	Description      *string
	Impact           *string
	Urgency          *models.TaskUrgency
	Deadline         *time.Time
	VolunteersNeeded *int
	Skills           *[]string
	Categories       *[]string
	Deliverables     *[]string
	Resources        *[]models.Resource
	Location         *models.Location
	ClearLocation    bool
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	return s.findTask(taskID, taskPreloads...)
}

// ExploreTasks lists tasks matching the selected facets
func (s *TaskService) ExploreTasks(sel facets.Selection, page utils.PageRequest) ([]models.Task, int64, error) {
	if err := sel.Validate(); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.Explore(facets.Build(sel), page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to explore tasks: %w", err)
	}
	return tasks, total, nil
}

// ListCharityTasks lists a charity's tasks newest first, one cursor page at a time
func (s *TaskService) ListCharityTasks(charityID uint64, page utils.PageRequest) ([]models.Task, utils.PaginationResponse, error) {
	tasks, err := s.taskRepo.ListByCharity(charityID, page)
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list charity tasks: %w", err)
	}

	fetched := len(tasks)
	if fetched > page.Limit {
		tasks = tasks[:page.Limit]
	}
	var lastID uint64
	if len(tasks) > 0 {
		lastID = tasks[len(tasks)-1].ID
	}

	return tasks, utils.CursorResponse(page, fetched, lastID), nil
}

// CreateTask creates a task. It opens as NOT_STARTED when the required
// fields are present and stays INCOMPLETE otherwise.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.CharityID == nil {
		return nil, ErrCharityRequired
	}
	if input.Urgency == "" {
		input.Urgency = models.UrgencyLow
	}
	if !input.Urgency.Valid() {
		return nil, ErrInvalidUrgency
	}
	if input.VolunteersNeeded < 0 {
		return nil, ErrInvalidVolunteersNeeded
	}

	allowed, err := isMemberWithRole(s.charityRepo, *input.CharityID, input.CreatorID, taskEditorRoles...)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTaskPermissionDenied
	}

	task := &models.Task{
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		Impact:           input.Impact,
		Urgency:          input.Urgency,
		Status:           models.TaskIncomplete,
		VolunteersNeeded: input.VolunteersNeeded,
		Deliverables:     input.Deliverables,
		Resources:        input.Resources,
		Location:         input.Location,
		CharityID:        input.CharityID,
		CreatorID:        input.CreatorID,
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}
	task.SetRequiredSkills(cleanList(input.Skills))
	task.SetCategories(cleanList(input.Categories))

	if task.IsComplete() {
		if task.Status, err = task.Status.Transition(models.TaskNotStarted); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.findTask(task.ID, taskPreloads...)
	if err != nil {
		return nil, err
	}
	indexTask(ctx, s.indexer, created)
	return created, nil
}

// UpdateTask updates an existing task's fields
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID, "Skills", "Categories")
	if err != nil {
		return nil, err
	}

	if err := s.authorize(task, actorID, taskEditorRoles...); err != nil {
		return nil, err
	}
	if input.Version != task.Version {
		return nil, ErrConflict
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Impact != nil {
		task.Impact = *input.Impact
	}
	if input.Urgency != nil {
		if !input.Urgency.Valid() {
			return nil, ErrInvalidUrgency
		}
		task.Urgency = *input.Urgency
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}
	if input.VolunteersNeeded != nil {
		if *input.VolunteersNeeded < 0 {
			return nil, ErrInvalidVolunteersNeeded
		}
		task.VolunteersNeeded = *input.VolunteersNeeded
	}
	if input.Skills != nil {
		task.SetRequiredSkills(cleanList(*input.Skills))
	}
	if input.Categories != nil {
		task.SetCategories(cleanList(*input.Categories))
	}
	if input.Deliverables != nil {
		task.Deliverables = *input.Deliverables
	}
	if input.Resources != nil {
		task.Resources = *input.Resources
	}
	if input.ClearLocation {
		task.Location = nil
	} else if input.Location != nil {
		task.Location = input.Location
	}

	if task.Status == models.TaskIncomplete && task.IsComplete() {
		if task.Status, err = task.Status.Transition(models.TaskNotStarted); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task, input.Version); err != nil {
		return nil, versionError("update task", err)
	}

	updated, err := s.findTask(task.ID, taskPreloads...)
	if err != nil {
		return nil, err
	}
	indexTask(ctx, s.indexer, updated)
	return updated, nil
}

// SetTaskStatus moves a task to a new status. Moving to the current status
// is a no-op.
func (s *TaskService) SetTaskStatus(ctx context.Context, taskID, actorID uint64, status models.TaskStatus, version uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "Skills", "Categories")
	if err != nil {
		return nil, err
	}

	if err := s.authorize(task, actorID, taskManagerRoles...); err != nil {
		return nil, err
	}

	next, err := task.Status.Transition(status)
	if err != nil {
		return nil, err
	}
	if next == task.Status {
		return task, nil
	}
	if version != task.Version {
		return nil, ErrConflict
	}
	if task.Status == models.TaskIncomplete && next == models.TaskNotStarted && !task.IsComplete() {
		return nil, ErrTaskIncomplete
	}

	if err := s.taskRepo.UpdateStatus(task, next, version); err != nil {
		return nil, versionError("update task status", err)
	}

	indexTask(ctx, s.indexer, task)
	return task, nil
}

// DeleteTask deletes a task and its applications. Only the creator or a
// charity admin may delete.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if err := s.authorize(task, actorID, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	unindex(ctx, s.indexer, search.CollectionTasks, taskID)
	return nil
}

// DraftTasksInput represents input for AI task drafting
type DraftTasksInput struct {
	Text      string
	CharityID uint64
	ActorID   uint64
}

// DraftTasks asks the AI service for task drafts a charity member can edit and submit
func (s *TaskService) DraftTasks(ctx context.Context, input DraftTasksInput) ([]TaskDraft, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	allowed, err := isMemberWithRole(s.charityRepo, input.CharityID, input.ActorID, taskEditorRoles...)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTaskPermissionDenied
	}

	drafts, err := s.aiService.DraftTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}

		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}
		draft.Urgency = strings.ToUpper(draft.Urgency)
		if !models.TaskUrgency(draft.Urgency).Valid() {
			draft.Urgency = string(models.UrgencyLow)
		}
		draft.Skills = cleanList(draft.Skills)

		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

func (s *TaskService) authorize(task *models.Task, actorID uint64, roles ...models.MemberRole) error {
	allowed, err := hasCharityRole(s.charityRepo, task, actorID, roles...)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTaskPermissionDenied
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
