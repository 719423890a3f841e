package repository

import (
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"gorm.io/gorm"
)

// GormCharityRepository is a GORM implementation of CharityRepository
type GormCharityRepository struct {
	db *gorm.DB
}

// NewCharityRepository creates a new CharityRepository
func NewCharityRepository(db *gorm.DB) CharityRepository {
	return &GormCharityRepository{db: db}
}

// Create creates a charity and its first member in a transaction
func (r *GormCharityRepository) Create(charity *models.Charity, owner *models.CharityMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(charity).Error; err != nil {
			return err
		}

		owner.CharityID = charity.ID
		return tx.Create(owner).Error
	})
}

// FindByID finds a charity by ID with optional preloading
func (r *GormCharityRepository) FindByID(id uint64, preload ...string) (*models.Charity, error) {
	var charity models.Charity
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&charity, id).Error; err != nil {
		return nil, err
	}
	return &charity, nil
}

// FindByInviteCode finds a charity by invite code
func (r *GormCharityRepository) FindByInviteCode(code string) (*models.Charity, error) {
	var charity models.Charity
	if err := r.db.Where("invite_code = ?", code).First(&charity).Error; err != nil {
		return nil, err
	}
	return &charity, nil
}

// ListAll lists every charity
func (r *GormCharityRepository) ListAll() ([]models.Charity, error) {
	var charities []models.Charity
	err := r.db.Order("id").Find(&charities).Error
	return charities, err
}

// Update updates a charity
func (r *GormCharityRepository) Update(charity *models.Charity) error {
	return r.db.Save(charity).Error
}

// Delete deletes a charity and all related data in a transaction
func (r *GormCharityRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("charity_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		if err := tx.Where("charity_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("charity_id = ?", id).Delete(&models.CharityMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Charity{}, id).Error
	})
}

// AddMember adds a member to a charity
func (r *GormCharityRepository) AddMember(member *models.CharityMember) error {
	return r.db.Create(member).Error
}

// UpdateMember saves a member's roles
func (r *GormCharityRepository) UpdateMember(member *models.CharityMember) error {
	return r.db.Model(member).Select("roles").Updates(member).Error
}

// RemoveMember removes a member from a charity
func (r *GormCharityRepository) RemoveMember(charityID, userID uint64) error {
	return r.db.Where("charity_id = ? AND user_id = ?", charityID, userID).
		Delete(&models.CharityMember{}).Error
}

// FindMember finds a specific charity member
func (r *GormCharityRepository) FindMember(charityID, userID uint64) (*models.CharityMember, error) {
	var member models.CharityMember
	if err := r.db.Where("charity_id = ? AND user_id = ?", charityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all charities a user is a member of
func (r *GormCharityRepository) ListMembersByUserID(userID uint64) ([]models.CharityMember, error) {
	var memberships []models.CharityMember
	if err := r.db.Preload("Charity").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a charity
func (r *GormCharityRepository) ListMembers(charityID uint64) ([]models.CharityMember, error) {
	var members []models.CharityMember
	if err := r.db.Preload("User").
		Where("charity_id = ?", charityID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
