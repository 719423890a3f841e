package models

import (
	"time"

	"gorm.io/gorm"
)

type Charity struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Website      string         `gorm:"type:varchar(255)" json:"website"`
	ContactEmail string         `gorm:"type:varchar(255)" json:"contact_email"`
	Tags         []string       `gorm:"serializer:json" json:"tags"`
	InviteCode   string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []CharityMember `gorm:"foreignKey:CharityID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:CharityID" json:"tasks,omitempty"`
}
