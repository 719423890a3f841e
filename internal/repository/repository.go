package repository

import (
	"errors"

	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

// ErrStaleVersion is returned by versioned writes when the row was changed
// since the caller read it, or no longer exists.
var ErrStaleVersion = errors.New("repository: stale version")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its skills and categories
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// Explore lists tasks matching a facet query, offset paginated
	Explore(query facets.Query, page utils.PageRequest) ([]models.Task, int64, error)

	// ListByCharity lists a charity's tasks newest first, cursor paginated.
	// Up to page.Limit+1 rows are returned.
	ListByCharity(charityID uint64, page utils.PageRequest) ([]models.Task, error)

	// ListByStatus lists tasks in a status with skills and applications preloaded
	ListByStatus(status models.TaskStatus) ([]models.Task, error)

	// ListByCharities lists tasks of the given charities with applications preloaded
	ListByCharities(charityIDs []uint64) ([]models.Task, error)

	// ListAll lists every task with skills and categories, for reindexing
	ListAll() ([]models.Task, error)

	// Update writes the task's editable fields and replaces its skills and
	// categories if expectedVersion is still current
	Update(task *models.Task, expectedVersion uint64) error

	// UpdateStatus changes the status if expectedVersion is still current
	UpdateStatus(task *models.Task, status models.TaskStatus, expectedVersion uint64) error

	// Delete soft deletes a task and removes its applications
	Delete(id uint64) error
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	// Create creates a new application
	Create(app *models.Application) error

	// FindByID finds an application by ID with its task
	FindByID(id uint64) (*models.Application, error)

	// FindByTaskAndUser finds the application of a user to a task
	FindByTaskAndUser(taskID, userID uint64) (*models.Application, error)

	// ListByUser lists a user's applications with their tasks. Facet conditions
	// and orderings apply to the task; ties fall back to newest application.
	ListByUser(userID uint64, query facets.Query, page utils.PageRequest) ([]models.Application, int64, error)

	// ListByTask lists applications to a task with their applicants
	ListByTask(taskID uint64) ([]models.Application, error)

	// ListAllByUser lists every application of a user with its task
	ListAllByUser(userID uint64) ([]models.Application, error)

	// ListTaskIDsByUser returns the ids of every task the user applied to
	ListTaskIDsByUser(userID uint64) ([]uint64, error)

	// CountAccepted counts ACCEPTED applications of a task
	CountAccepted(taskID uint64) (int64, error)

	// UpdateStatus changes the status if expectedVersion is still current
	UpdateStatus(app *models.Application, status models.ApplicationStatus, expectedVersion uint64) error

	// Delete hard deletes an application if expectedVersion is still current
	Delete(app *models.Application, expectedVersion uint64) error
}

// CharityRepository defines the interface for charity data access
type CharityRepository interface {
	// Create creates a charity and its first member atomically
	Create(charity *models.Charity, owner *models.CharityMember) error

	// FindByID finds a charity by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Charity, error)

	// FindByInviteCode finds a charity by invite code
	FindByInviteCode(code string) (*models.Charity, error)

	// ListAll lists every charity, for reindexing
	ListAll() ([]models.Charity, error)

	// Update updates a charity
	Update(charity *models.Charity) error

	// Delete deletes a charity with its tasks, applications and members
	Delete(id uint64) error

	// AddMember adds a member to a charity
	AddMember(member *models.CharityMember) error

	// UpdateMember saves a member's roles
	UpdateMember(member *models.CharityMember) error

	// RemoveMember removes a member from a charity
	RemoveMember(charityID, userID uint64) error

	// FindMember finds a specific charity member
	FindMember(charityID, userID uint64) (*models.CharityMember, error)

	// ListMembersByUserID lists all charities a user is a member of
	ListMembersByUserID(userID uint64) ([]models.CharityMember, error)

	// ListMembers lists all members of a charity
	ListMembers(charityID uint64) ([]models.CharityMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListAll lists every user, for reindexing
	ListAll() ([]models.User, error)

	// Update saves profile fields
	Update(user *models.User) error

	// CountDistinctCharitiesHelped counts distinct charities of COMPLETED
	// tasks on which the user's application was ACCEPTED
	CountDistinctCharitiesHelped(userID uint64) (int64, error)

	// CountDistinctVolunteersHelped counts distinct ACCEPTED applicants on
	// COMPLETED tasks of the given charities
	CountDistinctVolunteersHelped(charityIDs []uint64) (int64, error)
}
