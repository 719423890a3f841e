package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound         = errors.New("application not found")
	ErrAlreadyApplied              = errors.New("user has already applied to this task")
	ErrTaskNotOpen                 = errors.New("task is not accepting applications")
	ErrApplicationPermissionDenied = errors.New("user does not have permission to change this application")
	ErrApplicationNotDeletable     = errors.New("only rejected or withdrawn applications can be deleted")
	ErrCapacityReached             = errors.New("task already has all the volunteers it needs")
)

// ApplicationService handles volunteer applications and their review.
type ApplicationService struct {
	appRepo         repository.ApplicationRepository
	taskRepo        repository.TaskRepository
	charityRepo     repository.CharityRepository
	enforceCapacity bool
}

// NewApplicationService creates a new ApplicationService. With
// enforceCapacity set, accepting stops once a task has as many accepted
// volunteers as it asked for; otherwise over-accepting is allowed.
func NewApplicationService(appRepo repository.ApplicationRepository, taskRepo repository.TaskRepository, charityRepo repository.CharityRepository, enforceCapacity bool) *ApplicationService {
	return &ApplicationService{
		appRepo:         appRepo,
		taskRepo:        taskRepo,
		charityRepo:     charityRepo,
		enforceCapacity: enforceCapacity,
	}
}

// Apply creates a PENDING application of userID to a task.
func (s *ApplicationService) Apply(taskID, userID uint64, message string) (*models.Application, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !task.IsOpen() {
		return nil, ErrTaskNotOpen
	}

	if _, err := s.appRepo.FindByTaskAndUser(taskID, userID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	app := &models.Application{
		TaskID:    taskID,
		UserID:    userID,
		CharityID: task.CharityID,
		Status:    models.ApplicationPending,
		Message:   strings.TrimSpace(message),
	}
	if err := s.appRepo.Create(app); err != nil {
		// A concurrent apply can slip past the lookup above; the unique
		// index on (task_id, user_id) catches it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

// GetApplication returns an application visible to the applicant and the task's managers.
func (s *ApplicationService) GetApplication(appID, actorID uint64) (*models.Application, error) {
	app, err := s.findApplication(appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != actorID {
		if err := s.authorizeManager(app, actorID); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// AcceptApplication moves a PENDING application to ACCEPTED.
func (s *ApplicationService) AcceptApplication(appID, actorID, version uint64) (*models.Application, error) {
	return s.transition(appID, actorID, version, models.ApplicationAccepted,
		[]models.ApplicationStatus{models.ApplicationPending}, s.authorizeManager)
}

// RejectApplication moves a PENDING application to REJECTED. Accepted
// volunteers are removed with RemoveVolunteer instead.
func (s *ApplicationService) RejectApplication(appID, actorID, version uint64) (*models.Application, error) {
	return s.transition(appID, actorID, version, models.ApplicationRejected,
		[]models.ApplicationStatus{models.ApplicationPending}, s.authorizeManager)
}

// RemoveVolunteer moves an ACCEPTED application to REJECTED, freeing its
// slot. No pending applicant is promoted.
func (s *ApplicationService) RemoveVolunteer(appID, actorID, version uint64) (*models.Application, error) {
	return s.transition(appID, actorID, version, models.ApplicationRejected,
		[]models.ApplicationStatus{models.ApplicationAccepted}, s.authorizeManager)
}

// WithdrawApplication lets the applicant pull a PENDING or ACCEPTED
// application. Withdrawing twice is a no-op.
func (s *ApplicationService) WithdrawApplication(appID, actorID, version uint64) (*models.Application, error) {
	return s.transition(appID, actorID, version, models.ApplicationWithdrawn,
		[]models.ApplicationStatus{models.ApplicationPending, models.ApplicationAccepted}, s.authorizeApplicant)
}

// UndoApplicationStatus re-opens a REJECTED or WITHDRAWN application as
// PENDING. A rejection is undone by the task's managers, a withdrawal by
// the applicant. The earlier status is not remembered, and like Apply it
// needs the task to still be open.
func (s *ApplicationService) UndoApplicationStatus(appID, actorID, version uint64) (*models.Application, error) {
	return s.transition(appID, actorID, version, models.ApplicationPending,
		[]models.ApplicationStatus{models.ApplicationRejected, models.ApplicationWithdrawn},
		func(app *models.Application, actorID uint64) error {
			if app.Status == models.ApplicationWithdrawn ||
				(app.Status == models.ApplicationPending && app.UserID == actorID) {
				return s.authorizeApplicant(app, actorID)
			}
			return s.authorizeManager(app, actorID)
		})
}

// DeleteApplication removes a REJECTED or WITHDRAWN application of the caller.
func (s *ApplicationService) DeleteApplication(appID, actorID, version uint64) error {
	app, err := s.findApplication(appID)
	if err != nil {
		return err
	}
	if err := s.authorizeApplicant(app, actorID); err != nil {
		return err
	}
	if version != app.Version {
		return ErrConflict
	}
	if !app.Status.Deletable() {
		return ErrApplicationNotDeletable
	}

	if err := s.appRepo.Delete(app, version); err != nil {
		return versionError("delete application", err)
	}
	return nil
}

// ListMyApplications lists the caller's applications, filtered and ordered
// by the facets of their tasks.
func (s *ApplicationService) ListMyApplications(userID uint64, sel facets.Selection, page utils.PageRequest) ([]models.Application, int64, error) {
	if err := sel.Validate(); err != nil {
		return nil, 0, err
	}

	apps, total, err := s.appRepo.ListByUser(userID, facets.Build(sel), page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, total, nil
}

// ListTaskApplications lists the applications to a task for its managers.
func (s *ApplicationService) ListTaskApplications(taskID, actorID uint64) ([]models.Application, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	allowed, err := hasCharityRole(s.charityRepo, task, actorID, taskManagerRoles...)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrApplicationPermissionDenied
	}

	apps, err := s.appRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task applications: %w", err)
	}
	return apps, nil
}

type authorizer func(app *models.Application, actorID uint64) error

// transition applies one review action. Checks run in this order:
// permission, same-status no-op, version, allowed source, state machine,
// open task for re-opening, capacity.
func (s *ApplicationService) transition(appID, actorID, version uint64, target models.ApplicationStatus, from []models.ApplicationStatus, authorize authorizer) (*models.Application, error) {
	app, err := s.findApplication(appID)
	if err != nil {
		return nil, err
	}

	if err := authorize(app, actorID); err != nil {
		return nil, err
	}

	if app.Status == target {
		return app, nil
	}
	if version != app.Version {
		return nil, ErrConflict
	}

	if !containsStatus(from, app.Status) {
		return nil, &models.TransitionError{Entity: "application", From: string(app.Status), To: string(target)}
	}
	if _, err := app.Status.Transition(target); err != nil {
		return nil, err
	}

	if target == models.ApplicationPending && !app.Task.IsOpen() {
		return nil, ErrTaskNotOpen
	}
	if target == models.ApplicationAccepted {
		if err := s.checkCapacity(&app.Task); err != nil {
			return nil, err
		}
	}

	if err := s.appRepo.UpdateStatus(app, target, version); err != nil {
		return nil, versionError("update application status", err)
	}
	return app, nil
}

func (s *ApplicationService) checkCapacity(task *models.Task) error {
	if !s.enforceCapacity || task.VolunteersNeeded <= 0 {
		return nil
	}

	accepted, err := s.appRepo.CountAccepted(task.ID)
	if err != nil {
		return fmt.Errorf("failed to count accepted volunteers: %w", err)
	}
	if accepted >= int64(task.VolunteersNeeded) {
		return ErrCapacityReached
	}
	return nil
}

func (s *ApplicationService) authorizeManager(app *models.Application, actorID uint64) error {
	allowed, err := hasCharityRole(s.charityRepo, &app.Task, actorID, taskManagerRoles...)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrApplicationPermissionDenied
	}
	return nil
}

func (s *ApplicationService) authorizeApplicant(app *models.Application, actorID uint64) error {
	if app.UserID != actorID {
		return ErrApplicationPermissionDenied
	}
	return nil
}

func (s *ApplicationService) findApplication(appID uint64) (*models.Application, error) {
	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return app, nil
}

func containsStatus(statuses []models.ApplicationStatus, s models.ApplicationStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
