package search

import (
	"strconv"
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// TaskDocument is the indexed form of a task.
type TaskDocument struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Skills      []string  `json:"skills"`
	Categories  []string  `json:"categories"`
	Urgency     string    `json:"urgency"`
	Status      string    `json:"status"`
	CharityID   *uint64   `json:"charity_id,omitempty"`
	Deadline    time.Time `json:"deadline"`
}

// CharityDocument is the indexed form of a charity.
type CharityDocument struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Tags        []string `json:"tags"`
}

// UserDocument is the indexed form of a user. Credentials and email stay out of the index.
type UserDocument struct {
	Name      string   `json:"name"`
	TechTitle string   `json:"tech_title"`
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
}

func DocumentID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func NewTaskDocument(t models.Task) TaskDocument {
	return TaskDocument{
		Title:       t.Title,
		Description: t.Description,
		Impact:      t.Impact,
		Skills:      t.RequiredSkills(),
		Categories:  t.CategoryNames(),
		Urgency:     string(t.Urgency),
		Status:      string(t.Status),
		CharityID:   t.CharityID,
		Deadline:    t.Deadline,
	}
}

func NewCharityDocument(c models.Charity) CharityDocument {
	return CharityDocument{
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Tags:        c.Tags,
	}
}

func NewUserDocument(u models.User) UserDocument {
	return UserDocument{
		Name:      u.Name,
		TechTitle: u.TechTitle,
		Bio:       u.Bio,
		Skills:    u.Skills,
	}
}
