package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/middleware"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

type CharityHandler struct {
	charityService *services.CharityService
}

func NewCharityHandler(charityService *services.CharityService) *CharityHandler {
	return &CharityHandler{charityService: charityService}
}

// CreateCharity creates a new charity with the caller as admin
func (h *CharityHandler) CreateCharity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateCharityRequest struct {
		Name         string   `json:"name" binding:"required"`
		Description  string   `json:"description"`
		Website      string   `json:"website"`
		ContactEmail string   `json:"contact_email"`
		Tags         []string `json:"tags"`
	}

	var req CreateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	charity, err := h.charityService.CreateCharity(c.Request.Context(), services.CreateCharityInput{
		Name:         req.Name,
		Description:  req.Description,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		Tags:         req.Tags,
		OwnerID:      userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Charity created", dto.ToCharityDTO(*charity, true))
}

// ListCharities returns all charities the user is a member of
func (h *CharityHandler) ListCharities(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	memberships, err := h.charityService.ListCharitiesForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToMembershipDTOs(memberships))
}

// GetCharity returns charity details with its members.
// The caller's membership is loaded by RequireCharityAccess.
func (h *CharityHandler) GetCharity(c *gin.Context) {
	member, ok := middleware.GetCharityMember(c)
	if !ok {
		apierrors.InternalError(c, "Charity membership not found in context")
		return
	}

	charity, members, err := h.charityService.GetCharityWithMembers(member.CharityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToCharityDetailDTO(*charity, members, member.Roles))
}

// UpdateCharity updates the charity's details
func (h *CharityHandler) UpdateCharity(c *gin.Context) {
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}

	type UpdateCharityRequest struct {
		Name         *string   `json:"name"`
		Description  *string   `json:"description"`
		Website      *string   `json:"website"`
		ContactEmail *string   `json:"contact_email"`
		Tags         *[]string `json:"tags"`
	}

	var req UpdateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.charityService.UpdateCharity(c.Request.Context(), charity.ID, services.UpdateCharityInput{
		Name:         req.Name,
		Description:  req.Description,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		Tags:         req.Tags,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Charity updated", dto.ToCharityDTO(*updated, true))
}

// DeleteCharity removes the charity with its tasks and applications
func (h *CharityHandler) DeleteCharity(c *gin.Context) {
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}

	if err := h.charityService.DeleteCharity(c.Request.Context(), charity.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Charity deleted", nil)
}

// JoinCharity allows a user to join via invite code
func (h *CharityHandler) JoinCharity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	charity, err := h.charityService.JoinCharityByInvite(userID, req.InviteCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Successfully joined charity", dto.ToCharityDTO(*charity, true))
}

// RegenerateInviteCode generates a new invite code for the charity
func (h *CharityHandler) RegenerateInviteCode(c *gin.Context) {
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}

	updated, err := h.charityService.RegenerateInviteCode(charity.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Invite code regenerated", dto.ToCharityDTO(*updated, true))
}

// UpdateMemberRoles replaces a member's roles
func (h *CharityHandler) UpdateMemberRoles(c *gin.Context) {
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}
	targetID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	type UpdateRolesRequest struct {
		Roles []models.MemberRole `json:"roles" binding:"required"`
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.charityService.UpdateMemberRoles(charity.ID, targetID, req.Roles)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Member roles updated", dto.ToCharityMemberDTO(*member))
}

// RemoveMember removes a member from the charity
func (h *CharityHandler) RemoveMember(c *gin.Context) {
	charity, ok := middleware.GetCharity(c)
	if !ok {
		apierrors.InternalError(c, "Charity not found in context")
		return
	}
	targetID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)

	if err := h.charityService.RemoveMember(charity.ID, actorID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Member removed successfully", nil)
}
