package repository

import (
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/database"
	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

// GormApplicationRepository is a GORM implementation of ApplicationRepository
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create creates a new application
func (r *GormApplicationRepository) Create(app *models.Application) error {
	if app.Version == 0 {
		app.Version = 1
	}
	return r.db.Create(app).Error
}

// FindByID finds an application by ID with its task
func (r *GormApplicationRepository) FindByID(id uint64) (*models.Application, error) {
	var app models.Application
	if err := r.db.Preload("Task").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByTaskAndUser finds the application of a user to a task
func (r *GormApplicationRepository) FindByTaskAndUser(taskID, userID uint64) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByUser lists a user's applications filtered and ordered by task facets
func (r *GormApplicationRepository) ListByUser(userID uint64, query facets.Query, page utils.PageRequest) ([]models.Application, int64, error) {
	base := r.db.Model(&models.Application{}).
		Joins("JOIN tasks ON tasks.id = applications.task_id AND tasks.deleted_at IS NULL").
		Where("applications.user_id = ?", userID)
	base = whereFacets(r.db, base, query)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	err := orderFacets(base, query.ExplicitOrder()).
		Order("applications.created_at DESC").
		Scopes(database.Paginate(page, "applications.id")).
		Preload("Task").
		Preload("Task.Skills").
		Preload("Task.Categories").
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ListByTask lists applications to a task
func (r *GormApplicationRepository) ListByTask(taskID uint64) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&apps).Error
	return apps, err
}

// ListAllByUser lists every application of a user
func (r *GormApplicationRepository) ListAllByUser(userID uint64) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Joins("JOIN tasks ON tasks.id = applications.task_id AND tasks.deleted_at IS NULL").
		Where("applications.user_id = ?", userID).
		Order("applications.created_at DESC").
		Preload("Task").
		Preload("Task.Skills").
		Find(&apps).Error
	return apps, err
}

// ListTaskIDsByUser returns the ids of every task the user applied to
func (r *GormApplicationRepository) ListTaskIDsByUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &ids).Error
	return ids, err
}

// CountAccepted counts ACCEPTED applications of a task
func (r *GormApplicationRepository) CountAccepted(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("task_id = ? AND status = ?", taskID, models.ApplicationAccepted).
		Count(&count).Error
	return count, err
}

// UpdateStatus changes the status if expectedVersion is still current
func (r *GormApplicationRepository) UpdateStatus(app *models.Application, status models.ApplicationStatus, expectedVersion uint64) error {
	now := time.Now()
	res := r.db.Model(&models.Application{}).
		Where("id = ? AND version = ?", app.ID, expectedVersion).
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

	app.Status = status
	app.Version = expectedVersion + 1
	app.UpdatedAt = now
	return nil
}

// Delete hard deletes an application if expectedVersion is still current
func (r *GormApplicationRepository) Delete(app *models.Application, expectedVersion uint64) error {
	res := r.db.Where("id = ? AND version = ?", app.ID, expectedVersion).
		Delete(&models.Application{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
