package dto

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

// CharitySummaryDTO is the charity shown alongside a task
type CharitySummaryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID               uint64             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Impact           string             `json:"impact"`
	Skills           []string           `json:"skills"`
	Categories       []string           `json:"categories"`
	Urgency          models.TaskUrgency `json:"urgency"`
	Status           models.TaskStatus  `json:"status"`
	Deadline         *time.Time         `json:"deadline"`
	VolunteersNeeded int                `json:"volunteers_needed"`
	Deliverables     []string           `json:"deliverables"`
	Resources        []models.Resource  `json:"resources"`
	Location         *models.Location   `json:"location"`
	Remote           bool               `json:"remote"`
	CharityID        *uint64            `json:"charity_id"`
	CreatorID        uint64             `json:"creator_id"`
	Version          uint64             `json:"version"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Creator          *UserDTO           `json:"creator,omitempty"`
	Charity          *CharitySummaryDTO `json:"charity,omitempty"`
}

// TaskListItemDTO represents a task in list responses (minimal data)
type TaskListItemDTO struct {
	ID         uint64             `json:"id"`
	Title      string             `json:"title"`
	Skills     []string           `json:"skills"`
	Categories []string           `json:"categories"`
	Urgency    models.TaskUrgency `json:"urgency"`
	Status     models.TaskStatus  `json:"status"`
	Deadline   *time.Time         `json:"deadline"`
	Remote     bool               `json:"remote"`
	Version    uint64             `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Charity    *CharitySummaryDTO `json:"charity,omitempty"`
}

// TaskListResponse represents a page of tasks
type TaskListResponse struct {
	Tasks      []TaskListItemDTO        `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

func deadline(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func charitySummary(c *models.Charity) *CharitySummaryDTO {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CharitySummaryDTO{ID: c.ID, Name: c.Name}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Impact:           task.Impact,
		Skills:           nonNil(task.RequiredSkills()),
		Categories:       nonNil(task.CategoryNames()),
		Urgency:          task.Urgency,
		Status:           task.Status,
		Deadline:         deadline(task.Deadline),
		VolunteersNeeded: task.VolunteersNeeded,
		Deliverables:     nonNil(task.Deliverables),
		Resources:        task.Resources,
		Location:         task.Location,
		Remote:           task.IsRemote(),
		CharityID:        task.CharityID,
		CreatorID:        task.CreatorID,
		Version:          task.Version,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
		Charity:          charitySummary(task.Charity),
	}
	if dto.Resources == nil {
		dto.Resources = []models.Resource{}
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator, false)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	return TaskListItemDTO{
		ID:         task.ID,
		Title:      task.Title,
		Skills:     nonNil(task.RequiredSkills()),
		Categories: nonNil(task.CategoryNames()),
		Urgency:    task.Urgency,
		Status:     task.Status,
		Deadline:   deadline(task.Deadline),
		Remote:     task.IsRemote(),
		Version:    task.Version,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
		Charity:    charitySummary(task.Charity),
	}
}

func ToTaskListItemDTOs(tasks []models.Task) []TaskListItemDTO {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, pagination utils.PaginationResponse) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskListItemDTOs(tasks),
		Pagination: pagination,
	}
}
