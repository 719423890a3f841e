package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user and starts their session.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name     string             `json:"name" binding:"required,max=255"`
		Email    string             `json:"email" binding:"required,email"`
		Password string             `json:"password" binding:"required"`
		Role     models.AccountRole `json:"role"`
		Skills   []string           `json:"skills"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Skills:   req.Skills,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	respond(c, http.StatusCreated, "Signed up successfully", dto.ToUserDTO(*user, true))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	respond(c, http.StatusOK, "Logged in successfully", dto.ToUserDTO(*user, true))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToUserDTO(*user, true))
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint64) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
