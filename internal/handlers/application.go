package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

type ApplicationHandler struct {
	appService *services.ApplicationService
}

func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// ListMyApplications lists the session user's applications with their tasks
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, err := utils.GetOffsetParams(c, constants.DefaultPageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	sel, err := facets.ParseSelection(c.Request.URL.Query())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	apps, total, err := h.appService.ListMyApplications(userID, sel, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pagination := utils.OffsetResponse(page, total)
	respond(c, http.StatusOK, "", dto.ApplicationListResponse{
		Applications: dto.ToApplicationDTOs(apps),
		Pagination:   &pagination,
	})
}

// GetApplication returns an application visible to its applicant or the task's managers
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	appID, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := h.appService.GetApplication(appID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToApplicationDTO(*app))
}

type transitionFunc func(appID, actorID, version uint64) (*models.Application, error)

// transition runs a version-guarded status change read from {"version": n}.
func (h *ApplicationHandler) transition(c *gin.Context, fn transitionFunc, message string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	appID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type TransitionRequest struct {
		Version uint64 `json:"version" binding:"required"`
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	app, err := fn(appID, userID, req.Version)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, message, dto.ToApplicationDTO(*app))
}

func (h *ApplicationHandler) AcceptApplication(c *gin.Context) {
	h.transition(c, h.appService.AcceptApplication, "Application accepted")
}

func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	h.transition(c, h.appService.RejectApplication, "Application rejected")
}

func (h *ApplicationHandler) RemoveVolunteer(c *gin.Context) {
	h.transition(c, h.appService.RemoveVolunteer, "Volunteer removed")
}

func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	h.transition(c, h.appService.WithdrawApplication, "Application withdrawn")
}

// UndoApplicationStatus returns a rejected or withdrawn application to pending
func (h *ApplicationHandler) UndoApplicationStatus(c *gin.Context) {
	h.transition(c, h.appService.UndoApplicationStatus, "Application reopened")
}

// DeleteApplication deletes a rejected or withdrawn application.
// The version is read from the query string.
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	appID, ok := parseID(c, "id")
	if !ok {
		return
	}
	version, err := strconv.ParseUint(c.Query("version"), 10, 64)
	if err != nil || version == 0 {
		apierrors.BadRequest(c, "Invalid version")
		return
	}

	if err := h.appService.DeleteApplication(appID, userID, version); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Application deleted", nil)
}
