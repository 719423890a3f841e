package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskUrgency string

const (
	UrgencyLow    TaskUrgency = "LOW"
	UrgencyMedium TaskUrgency = "MEDIUM"
	UrgencyHigh   TaskUrgency = "HIGH"
)

// Valid reports whether u is a known urgency literal.
func (u TaskUrgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Resource is a reference to an uploaded file. The file itself lives in object storage.
type Resource struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	Extension string `json:"extension"`
}

// Location is where a task takes place. A nil location means remote.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Task struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Impact           string         `gorm:"type:text" json:"impact"`
	Urgency          TaskUrgency    `gorm:"type:varchar(20);not null;default:'LOW'" json:"urgency"`
	Status           TaskStatus     `gorm:"type:varchar(20);not null;default:'INCOMPLETE'" json:"status"`
	Deadline         time.Time      `json:"deadline"`
	VolunteersNeeded int            `gorm:"not null;default:0" json:"volunteers_needed"`
	Deliverables     []string       `gorm:"serializer:json" json:"deliverables"`
	Resources        []Resource     `gorm:"serializer:json" json:"resources"`
	Location         *Location      `gorm:"serializer:json" json:"location"`
	CharityID        *uint64        `json:"charity_id"`
	CreatorID        uint64         `gorm:"not null" json:"creator_id"`
	Version          uint64         `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Skills       []TaskSkill    `gorm:"foreignKey:TaskID" json:"-"`
	Categories   []TaskCategory `gorm:"foreignKey:TaskID" json:"-"`
	Creator      User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Charity      *Charity       `gorm:"foreignKey:CharityID" json:"charity,omitempty"`
	Applications []Application  `gorm:"foreignKey:TaskID" json:"applications,omitempty"`
}

// TaskSkill is one required skill of a task.
type TaskSkill struct {
	ID     uint64 `gorm:"primarykey"`
	TaskID uint64 `gorm:"not null;index"`
	Name   string `gorm:"type:varchar(100);not null;index"`
}

// TaskCategory is one category tag of a task.
type TaskCategory struct {
	ID     uint64 `gorm:"primarykey"`
	TaskID uint64 `gorm:"not null;index"`
	Name   string `gorm:"type:varchar(100);not null;index"`
}

// RequiredSkills returns the names of the task's required skills.
func (t Task) RequiredSkills() []string {
	names := make([]string, len(t.Skills))
	for i, s := range t.Skills {
		names[i] = s.Name
	}
	return names
}

// CategoryNames returns the names of the task's categories.
func (t Task) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// SetRequiredSkills replaces the skill rows, dropping blanks and duplicates.
func (t *Task) SetRequiredSkills(names []string) {
	t.Skills = nil
	for _, n := range uniqueStrings(names) {
		t.Skills = append(t.Skills, TaskSkill{TaskID: t.ID, Name: n})
	}
}

// SetCategories replaces the category rows, dropping blanks and duplicates.
func (t *Task) SetCategories(names []string) {
	t.Categories = nil
	for _, n := range uniqueStrings(names) {
		t.Categories = append(t.Categories, TaskCategory{TaskID: t.ID, Name: n})
	}
}

// IsComplete reports whether every field a volunteer needs before applying is filled in.
func (t Task) IsComplete() bool {
	return strings.TrimSpace(t.Title) != "" &&
		strings.TrimSpace(t.Description) != "" &&
		strings.TrimSpace(t.Impact) != "" &&
		!t.Deadline.IsZero()
}

// IsOpen reports whether the task accepts applications.
func (t Task) IsOpen() bool {
	return t.Status == TaskNotStarted || t.Status == TaskInProgress
}

// IsRemote reports whether the task has no physical location.
func (t Task) IsRemote() bool {
	return t.Location == nil
}

// AcceptedCount counts ACCEPTED applications among the preloaded ones.
func (t Task) AcceptedCount() int {
	n := 0
	for _, a := range t.Applications {
		if a.Status == ApplicationAccepted {
			n++
		}
	}
	return n
}

// ApplicationFrom returns the preloaded application of the given user, if any.
func (t Task) ApplicationFrom(userID uint64) (Application, bool) {
	for _, a := range t.Applications {
		if a.UserID == userID {
			return a, true
		}
	}
	return Application{}, false
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
