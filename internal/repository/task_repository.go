package repository

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/database"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

// taskFields are the columns an update may write. Ownership never changes;
// status is written here only for the implicit INCOMPLETE to NOT_STARTED step.
var taskFields = []string{
	"title",
	"status",
	"description",
	"impact",
	"urgency",
	"deadline",
	"volunteers_needed",
	"deliverables",
	"resources",
	"location",
	"version",
	"updated_at",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	if task.Version == 0 {
		task.Version = 1
	}
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Explore lists tasks matching a facet query
func (r *GormTaskRepository) Explore(query facets.Query, page utils.PageRequest) ([]models.Task, int64, error) {
	base := whereFacets(r.db, r.db.Model(&models.Task{}), query)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := orderFacets(base, query.Order).
		Scopes(database.Paginate(page, "tasks.id")).
		Preload("Skills").
		Preload("Categories").
		Preload("Charity").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByCharity lists a charity's tasks newest first
func (r *GormTaskRepository) ListByCharity(charityID uint64, page utils.PageRequest) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("tasks.charity_id = ?", charityID).
		Scopes(database.Paginate(page, "tasks.id")).
		Preload("Skills").
		Preload("Categories").
		Find(&tasks).Error
	return tasks, err
}

// ListByStatus lists tasks in a status
func (r *GormTaskRepository) ListByStatus(status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Preload("Skills").
		Preload("Applications").
		Find(&tasks).Error
	return tasks, err
}

// ListByCharities lists tasks of the given charities
func (r *GormTaskRepository) ListByCharities(charityIDs []uint64) ([]models.Task, error) {
	if len(charityIDs) == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	err := r.db.Where("charity_id IN ?", charityIDs).
		Order("created_at DESC").
		Preload("Skills").
		Preload("Applications").
		Find(&tasks).Error
	return tasks, err
}

// ListAll lists every task
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Order("id").
		Preload("Skills").
		Preload("Categories").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the editable fields and replaces skills and categories
func (r *GormTaskRepository) Update(task *models.Task, expectedVersion uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		next := *task
		next.Version = expectedVersion + 1
		next.UpdatedAt = time.Now()

		res := tx.Model(&next).
			Where("version = ?", expectedVersion).
			Select(taskFields).
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskCategory{}).Error; err != nil {
			return err
		}
		for i := range next.Skills {
			next.Skills[i].ID = 0
			next.Skills[i].TaskID = task.ID
		}
		for i := range next.Categories {
			next.Categories[i].ID = 0
			next.Categories[i].TaskID = task.ID
		}
		if len(next.Skills) > 0 {
			if err := tx.Create(&next.Skills).Error; err != nil {
				return err
			}
		}
		if len(next.Categories) > 0 {
			if err := tx.Create(&next.Categories).Error; err != nil {
				return err
			}
		}

		*task = next
		return nil
	})
}

// UpdateStatus changes the status if expectedVersion is still current
func (r *GormTaskRepository) UpdateStatus(task *models.Task, status models.TaskStatus, expectedVersion uint64) error {
	now := time.Now()
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}

	task.Status = status
	task.Version = expectedVersion + 1
	task.UpdatedAt = now
	return nil
}

// Delete soft deletes a task and removes its applications
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
