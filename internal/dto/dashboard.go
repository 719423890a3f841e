package dto

import (
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/recommend"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

// RecommendationDTO is the suggested task. Task is null when Title is a
// "nothing found" message.
type RecommendationDTO struct {
	Title string           `json:"title"`
	Score int              `json:"score"`
	Task  *TaskListItemDTO `json:"task"`
}

// DashboardDTO is the home screen summary
type DashboardDTO struct {
	Role             models.AccountRole `json:"role"`
	Tasks            []TaskListItemDTO  `json:"tasks"`
	Recommended      RecommendationDTO  `json:"recommended_task"`
	NearingDeadline  []TaskListItemDTO  `json:"nearing_deadline"`
	NotStarted       []TaskListItemDTO  `json:"not_started"`
	InProgress       []TaskListItemDTO  `json:"in_progress"`
	Completed        []TaskListItemDTO  `json:"completed"`
	CharitiesHelped  *int64             `json:"charities_helped,omitempty"`
	VolunteersHelped *int64             `json:"volunteers_helped,omitempty"`
}

func ToRecommendationDTO(r recommend.Result) RecommendationDTO {
	dto := RecommendationDTO{Title: r.Title, Score: r.Score}
	if r.Task != nil {
		task := ToTaskListItemDTO(*r.Task)
		dto.Task = &task
	}
	return dto
}

// ToDashboardDTO flattens a dashboard. Only the helped counter matching
// the role is included.
func ToDashboardDTO(d *services.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		Role:            d.Role,
		Tasks:           ToTaskListItemDTOs(d.Tasks),
		Recommended:     ToRecommendationDTO(d.Recommended),
		NearingDeadline: ToTaskListItemDTOs(d.NearingDeadline),
		NotStarted:      ToTaskListItemDTOs(d.NotStarted),
		InProgress:      ToTaskListItemDTOs(d.InProgress),
		Completed:       ToTaskListItemDTOs(d.Completed),
	}
	if d.Role == models.AccountCharity {
		helped := d.VolunteersHelped
		dto.VolunteersHelped = &helped
	} else {
		helped := d.CharitiesHelped
		dto.CharitiesHelped = &helped
	}
	return dto
}
