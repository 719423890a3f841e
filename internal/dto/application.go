package dto

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

// ApplicationDTO represents an application in API responses
type ApplicationDTO struct {
	ID        uint64                   `json:"id"`
	TaskID    uint64                   `json:"task_id"`
	UserID    uint64                   `json:"user_id"`
	CharityID *uint64                  `json:"charity_id"`
	Status    models.ApplicationStatus `json:"status"`
	Message   string                   `json:"message"`
	Version   uint64                   `json:"version"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
	Task      *TaskListItemDTO         `json:"task,omitempty"`
	User      *UserDTO                 `json:"user,omitempty"`
}

// ApplicationListResponse represents a page of applications
type ApplicationListResponse struct {
	Applications []ApplicationDTO          `json:"applications"`
	Pagination   *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToApplicationDTO converts an Application, including the task and
// applicant when they were preloaded.
func ToApplicationDTO(app models.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:        app.ID,
		TaskID:    app.TaskID,
		UserID:    app.UserID,
		CharityID: app.CharityID,
		Status:    app.Status,
		Message:   app.Message,
		Version:   app.Version,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
	if app.Task.ID != 0 {
		task := ToTaskListItemDTO(app.Task)
		dto.Task = &task
	}
	if app.User.ID != 0 {
		user := ToUserDTO(app.User, false)
		dto.User = &user
	}
	return dto
}

func ToApplicationDTOs(apps []models.Application) []ApplicationDTO {
	items := make([]ApplicationDTO, len(apps))
	for i, app := range apps {
		items[i] = ToApplicationDTO(app)
	}
	return items
}
