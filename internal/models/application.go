package models

import "time"

type Application struct {
	ID        uint64            `gorm:"primarykey" json:"id"`
	TaskID    uint64            `gorm:"not null;uniqueIndex:idx_applications_task_user" json:"task_id"`
	UserID    uint64            `gorm:"not null;uniqueIndex:idx_applications_task_user" json:"user_id"`
	CharityID *uint64           `json:"charity_id"`
	Status    ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Message   string            `gorm:"type:text" json:"message"`
	Version   uint64            `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
