package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// LoadTask loads the task named by the id parameter with its relations.
// Tasks are public, so no membership is required to read one.
func LoadTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Skills").
			Preload("Categories").
			Preload("Charity").
			Preload("Creator").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask returns the task loaded by LoadTask.
func GetTask(c *gin.Context) (models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := v.(models.Task)
	return task, ok
}
