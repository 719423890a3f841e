package repository

import (
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAll lists every user
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("id").Find(&users).Error
	return users, err
}

// Update saves profile fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Model(user).
		Select("name", "bio", "tech_title", "skills", "updated_at").
		Updates(user).Error
}

// CountDistinctCharitiesHelped counts charities the user completed accepted work for
func (r *GormUserRepository) CountDistinctCharitiesHelped(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Joins("JOIN tasks ON tasks.id = applications.task_id AND tasks.deleted_at IS NULL").
		Where("applications.user_id = ? AND applications.status = ?", userID, models.ApplicationAccepted).
		Where("tasks.status = ? AND tasks.charity_id IS NOT NULL", models.TaskCompleted).
		Distinct("tasks.charity_id").
		Count(&count).Error
	return count, err
}

// CountDistinctVolunteersHelped counts accepted applicants on completed tasks
func (r *GormUserRepository) CountDistinctVolunteersHelped(charityIDs []uint64) (int64, error) {
	if len(charityIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.Model(&models.Application{}).
		Joins("JOIN tasks ON tasks.id = applications.task_id AND tasks.deleted_at IS NULL").
		Where("applications.status = ?", models.ApplicationAccepted).
		Where("tasks.status = ? AND tasks.charity_id IN ?", models.TaskCompleted, charityIDs).
		Distinct("applications.user_id").
		Count(&count).Error
	return count, err
}
