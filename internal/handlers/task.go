package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/middleware"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	appService  *services.ApplicationService
}

func NewTaskHandler(taskService *services.TaskService, appService *services.ApplicationService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		appService:  appService,
	}
}

// ExploreTasks lists tasks filtered and ordered by the selected facets
func (h *TaskHandler) ExploreTasks(c *gin.Context) {
	page, err := utils.GetOffsetParams(c, constants.ExplorePageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	sel, err := facets.ParseSelection(c.Request.URL.Query())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tasks, total, err := h.taskService.ExploreTasks(sel, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToTaskListResponse(tasks, utils.OffsetResponse(page, total)))
}

// ListCharityTasks lists a charity's tasks with cursor pagination
func (h *TaskHandler) ListCharityTasks(c *gin.Context) {
	charityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, err := utils.GetCursorParams(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tasks, pagination, err := h.taskService.ListCharityTasks(charityID, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToTaskListResponse(tasks, pagination))
}

// GetTask returns the task loaded by LoadTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	respond(c, http.StatusOK, "", dto.ToTaskDTO(task))
}

type createTaskRequest struct {
	Title            string             `json:"title" binding:"required,max=255"`
	Description      string             `json:"description"`
	Impact           string             `json:"impact"`
	Urgency          models.TaskUrgency `json:"urgency"`
	Deadline         *time.Time         `json:"deadline"`
	VolunteersNeeded int                `json:"volunteers_needed" binding:"min=0"`
	Skills           []string           `json:"skills"`
	Categories       []string           `json:"categories"`
	Deliverables     []string           `json:"deliverables"`
	Resources        []models.Resource  `json:"resources"`
	Location         *models.Location   `json:"location"`
}

// CreateTask creates a task under the charity in the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	charityID := charity.ID
	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Impact:           req.Impact,
		Urgency:          req.Urgency,
		Deadline:         req.Deadline,
		VolunteersNeeded: req.VolunteersNeeded,
		Skills:           req.Skills,
		Categories:       req.Categories,
		Deliverables:     req.Deliverables,
		Resources:        req.Resources,
		Location:         req.Location,
		CharityID:        &charityID,
		CreatorID:        userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Task created", dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update guarded by the task version
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Version          uint64              `json:"version" binding:"required"`
		Title            *string             `json:"title"`
		Description      *string             `json:"description"`
		Impact           *string             `json:"impact"`
		Urgency          *models.TaskUrgency `json:"urgency"`
		Deadline         *time.Time          `json:"deadline"`
		VolunteersNeeded *int                `json:"volunteers_needed"`
		Skills           *[]string           `json:"skills"`
		Categories       *[]string           `json:"categories"`
		Deliverables     *[]string           `json:"deliverables"`
		Resources        *[]models.Resource  `json:"resources"`
		Location         *models.Location    `json:"location"`
		Remote           bool                `json:"remote"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, services.UpdateTaskInput{
		Version:          req.Version,
		Title:            req.Title,
		Description:      req.Description,
		Impact:           req.Impact,
		Urgency:          req.Urgency,
		Deadline:         req.Deadline,
		VolunteersNeeded: req.VolunteersNeeded,
		Skills:           req.Skills,
		Categories:       req.Categories,
		Deliverables:     req.Deliverables,
		Resources:        req.Resources,
		Location:         req.Location,
		ClearLocation:    req.Remote,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task updated", dto.ToTaskDTO(*task))
}

// SetTaskStatus moves a task through its status machine
func (h *TaskHandler) SetTaskStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status  string `json:"status" binding:"required"`
		Version uint64 `json:"version" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetTaskStatus(c.Request.Context(), taskID, userID, models.TaskStatus(req.Status), req.Version)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task status updated", dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its applications
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task deleted", nil)
}

// DraftTasks turns free text into task drafts for the charity in the path
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}

	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), services.DraftTasksInput{
		Text:      req.Text,
		CharityID: charity.ID,
		ActorID:   userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tasks drafted", gin.H{"tasks": drafts})
}

// Apply submits the session user's application to the task
func (h *TaskHandler) Apply(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type ApplyRequest struct {
		Message string `json:"message" binding:"max=2000"`
	}

	var req ApplyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	app, err := h.appService.Apply(taskID, userID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Application submitted", dto.ToApplicationDTO(*app))
}

// ListTaskApplications lists the applications to a task for its managers
func (h *TaskHandler) ListTaskApplications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	apps, err := h.appService.ListTaskApplications(taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ApplicationListResponse{Applications: dto.ToApplicationDTOs(apps)})
}
