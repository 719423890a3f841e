package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// RequireCharityAccess checks if the user is a member of the charity
func RequireCharityAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		charityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid charity ID")
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var charity models.Charity
		if err := database.GetDB().First(&charity, charityID).Error; err != nil {
			apierrors.NotFound(c, "Charity not found")
			return
		}

		var member models.CharityMember
		err = database.GetDB().Where("charity_id = ? AND user_id = ?", charityID, userID).First(&member).Error
		if err != nil {
			// 404 rather than 403 so membership does not leak
			apierrors.NotFound(c, "Charity not found")
			return
		}

		c.Set(constants.ContextKeyCharity, charity)
		c.Set(constants.ContextKeyCharityMember, member)
		c.Next()
	}
}

// RequireCharityRole checks that the member loaded by RequireCharityAccess
// holds at least one of roles.
func RequireCharityRole(roles ...models.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetCharityMember(c)
		if !ok {
			apierrors.Forbidden(c, "Charity access required")
			return
		}

		if !member.HasRole(roles...) {
			apierrors.Forbidden(c, "Your charity role does not allow this action")
			return
		}

		c.Next()
	}
}

// GetCharity returns the charity loaded by RequireCharityAccess.
func GetCharity(c *gin.Context) (models.Charity, bool) {
	v, exists := c.Get(constants.ContextKeyCharity)
	if !exists {
		return models.Charity{}, false
	}
	charity, ok := v.(models.Charity)
	return charity, ok
}

// GetCharityMember returns the caller's membership loaded by RequireCharityAccess.
func GetCharityMember(c *gin.Context) (models.CharityMember, bool) {
	v, exists := c.Get(constants.ContextKeyCharityMember)
	if !exists {
		return models.CharityMember{}, false
	}
	member, ok := v.(models.CharityMember)
	return member, ok
}
