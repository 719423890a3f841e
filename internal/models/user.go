package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountRole is the kind of account a user signed up as.
type AccountRole string

const (
	AccountVolunteer AccountRole = "volunteer"
	AccountCharity   AccountRole = "charity"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	TechTitle    string         `gorm:"type:varchar(255)" json:"tech_title"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Roles        []AccountRole  `gorm:"serializer:json" json:"roles"`
	Skills       []string       `gorm:"serializer:json" json:"skills"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTasks []Task          `gorm:"foreignKey:CreatorID" json:"-"`
	Applications []Application   `gorm:"foreignKey:UserID" json:"-"`
	Memberships  []CharityMember `gorm:"foreignKey:UserID" json:"-"`
}

// PrimaryRole returns the first account role, defaulting to volunteer.
func (u User) PrimaryRole() AccountRole {
	if len(u.Roles) == 0 {
		return AccountVolunteer
	}
	return u.Roles[0]
}
