package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser returns another user's public profile
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToUserDTO(*user, false))
}

// UpdateProfile changes the caller's name, bio, tech title or skills
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Name      *string   `json:"name"`
		Bio       *string   `json:"bio"`
		TechTitle *string   `json:"tech_title"`
		Skills    *[]string `json:"skills"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Name:      req.Name,
		Bio:       req.Bio,
		TechTitle: req.TechTitle,
		Skills:    req.Skills,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated", dto.ToUserDTO(*user, true))
}
