package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"gorm.io/gorm"
)

var (
	// ErrConflict is returned when a write carries a version that is no longer current.
	ErrConflict = errors.New("resource was modified by another request")
)

// taskManagerRoles may review applications and change task status.
var taskManagerRoles = []models.MemberRole{models.RoleAdmin, models.RoleCoordinator}

// taskEditorRoles may create and edit tasks.
var taskEditorRoles = []models.MemberRole{models.RoleAdmin, models.RoleCoordinator, models.RoleEditor}

// hasCharityRole reports whether userID holds one of roles in the task's
// charity. The task creator always passes.
func hasCharityRole(charityRepo repository.CharityRepository, task *models.Task, userID uint64, roles ...models.MemberRole) (bool, error) {
	if task.CreatorID == userID {
		return true, nil
	}
	if task.CharityID == nil {
		return false, nil
	}
	return isMemberWithRole(charityRepo, *task.CharityID, userID, roles...)
}

func isMemberWithRole(charityRepo repository.CharityRepository, charityID, userID uint64, roles ...models.MemberRole) (bool, error) {
	member, err := charityRepo.FindMember(charityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find charity member: %w", err)
	}
	return member.HasRole(roles...), nil
}

// versionError maps a stale write to ErrConflict and wraps anything else.
func versionError(action string, err error) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return ErrConflict
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// The index is kept in sync on a best-effort basis. A failed write is
// logged; the next reindex repairs it.

func indexTask(ctx context.Context, engine search.Engine, task *models.Task) {
	if err := engine.Index(ctx, search.CollectionTasks, search.DocumentID(task.ID), search.NewTaskDocument(*task)); err != nil {
		logger.Log.Warnw("failed to index task", "taskID", task.ID, "error", err)
	}
}

func indexCharity(ctx context.Context, engine search.Engine, charity *models.Charity) {
	if err := engine.Index(ctx, search.CollectionCharities, search.DocumentID(charity.ID), search.NewCharityDocument(*charity)); err != nil {
		logger.Log.Warnw("failed to index charity", "charityID", charity.ID, "error", err)
	}
}

func indexUser(ctx context.Context, engine search.Engine, user *models.User) {
	if err := engine.Index(ctx, search.CollectionUsers, search.DocumentID(user.ID), search.NewUserDocument(*user)); err != nil {
		logger.Log.Warnw("failed to index user", "userID", user.ID, "error", err)
	}
}

func unindex(ctx context.Context, engine search.Engine, collection search.Collection, id uint64) {
	if err := engine.Delete(ctx, collection, search.DocumentID(id)); err != nil {
		logger.Log.Warnw("failed to remove document from index", "collection", collection, "id", id, "error", err)
	}
}
