package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the session user's dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToDashboardDTO(dashboard))
}
