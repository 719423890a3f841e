package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"github.com/skillanthropy/skillanthropy-api/internal/middleware"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.Envelope{
		Data:    data,
		Message: message,
		Error:   nil,
		Status:  status,
	})
}

// parseID reads a numeric path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// requireUser returns the session user, answering 401 when there is none.
func requireUser(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// respondServiceError maps service errors onto the API error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	var terr *models.TransitionError

	switch {
	case errors.As(err, &terr):
		if terr.Unknown {
			apierrors.BadRequestWithDetails(c, terr.Error(), gin.H{"status": terr.To})
			return
		}
		apierrors.InvalidTransition(c, terr.Error(), gin.H{"from": terr.From, "to": terr.To})

	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, facets.ErrInvalidFacet),
		errors.Is(err, utils.ErrInvalidCursor),
		errors.Is(err, utils.ErrMixedPagination),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidAccountRole),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrCharityRequired),
		errors.Is(err, services.ErrInvalidUrgency),
		errors.Is(err, services.ErrInvalidVolunteersNeeded),
		errors.Is(err, services.ErrInvalidCharityName),
		errors.Is(err, services.ErrInvalidMemberRoles),
		errors.Is(err, services.ErrCannotRemoveYourself),
		errors.Is(err, services.ErrSearchQueryRequired),
		errors.Is(err, services.ErrInvalidCollection),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))

	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrApplicationPermissionDenied):
		apierrors.RespondWithError(c, http.StatusForbidden, apierrors.NewAPIError(apierrors.ErrCodeInsufficientPermissions, err.Error()))

	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrCharityNotFound),
		errors.Is(err, services.ErrCharityMemberNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCapacityReached):
		apierrors.CapacityReached(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyApplied),
		errors.Is(err, services.ErrAlreadyCharityMember):
		apierrors.RespondWithError(c, http.StatusConflict, apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, err.Error()))

	case errors.Is(err, services.ErrTaskIncomplete),
		errors.Is(err, services.ErrApplicationNotDeletable):
		apierrors.InvalidTransition(c, err.Error(), nil)
	case errors.Is(err, services.ErrTaskNotOpen):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeInvalidOperation, err.Error()))

	case errors.Is(err, search.ErrUnavailable),
		errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		requestID, _ := c.Get(constants.ContextKeyRequest)
		logger.Log.Errorw("request failed", "requestID", requestID, "path", c.Request.URL.Path, "error", err)
		apierrors.InternalError(c, "")
	}
}
