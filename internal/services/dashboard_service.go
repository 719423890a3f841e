package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/recommend"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"gorm.io/gorm"
)

// Dashboard is the summary shown on a user's home screen.
type Dashboard struct {
	Role        models.AccountRole
	Tasks       []models.Task
	Recommended recommend.Result

	NearingDeadline []models.Task
	NotStarted      []models.Task
	InProgress      []models.Task
	Completed       []models.Task

	// Only one of these is filled, depending on Role.
	CharitiesHelped  int64
	VolunteersHelped int64
}

// DashboardService builds dashboards for volunteers and charity users.
type DashboardService struct {
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	appRepo     repository.ApplicationRepository
	charityRepo repository.CharityRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, appRepo repository.ApplicationRepository, charityRepo repository.CharityRepository) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		appRepo:     appRepo,
		charityRepo: charityRepo,
		now:         time.Now,
	}
}

// GetDashboard builds the dashboard for the user's primary account role.
func (s *DashboardService) GetDashboard(userID uint64) (*Dashboard, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PrimaryRole() == models.AccountCharity {
		return s.charityDashboard(user)
	}
	return s.volunteerDashboard(user)
}

func (s *DashboardService) volunteerDashboard(user *models.User) (*Dashboard, error) {
	apps, err := s.appRepo.ListAllByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	tasks := make([]models.Task, 0, len(apps))
	accepted := make([]models.Task, 0, len(apps))
	for _, app := range apps {
		tasks = append(tasks, app.Task)
		if app.Status == models.ApplicationAccepted {
			accepted = append(accepted, app.Task)
		}
	}

	candidates, err := s.taskRepo.ListByStatus(models.TaskNotStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}

	helped, err := s.userRepo.CountDistinctCharitiesHelped(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count charities helped: %w", err)
	}

	d := &Dashboard{
		Role:            models.AccountVolunteer,
		Tasks:           tasks,
		Recommended:     recommend.ForVolunteer(candidates, user.ID, user.Skills),
		CharitiesHelped: helped,
	}
	s.fillSections(d, accepted)
	return d, nil
}

func (s *DashboardService) charityDashboard(user *models.User) (*Dashboard, error) {
	memberships, err := s.charityRepo.ListMembersByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list charities: %w", err)
	}

	charityIDs := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		charityIDs = append(charityIDs, m.CharityID)
	}

	d := &Dashboard{
		Role:        models.AccountCharity,
		Tasks:       []models.Task{},
		Recommended: recommend.MostPopular(nil),
	}
	if len(charityIDs) == 0 {
		s.fillSections(d, nil)
		return d, nil
	}

	tasks, err := s.taskRepo.ListByCharities(charityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list charity tasks: %w", err)
	}

	helped, err := s.userRepo.CountDistinctVolunteersHelped(charityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count volunteers helped: %w", err)
	}

	d.Tasks = tasks
	d.Recommended = recommend.MostPopular(tasks)
	d.VolunteersHelped = helped
	s.fillSections(d, tasks)
	return d, nil
}

// fillSections splits tasks into the status buckets and the nearing
// deadline list: deadline at most seven whole days away, not completed, soonest first.
func (s *DashboardService) fillSections(d *Dashboard, tasks []models.Task) {
	now := s.now()

	d.NearingDeadline = []models.Task{}
	d.NotStarted = []models.Task{}
	d.InProgress = []models.Task{}
	d.Completed = []models.Task{}

	for _, t := range tasks {
		switch t.Status {
		case models.TaskNotStarted:
			d.NotStarted = append(d.NotStarted, t)
		case models.TaskInProgress:
			d.InProgress = append(d.InProgress, t)
		case models.TaskCompleted:
			d.Completed = append(d.Completed, t)
		}

		if t.Status != models.TaskCompleted && !t.Deadline.IsZero() &&
			!t.Deadline.Before(now) && daysUntil(now, t.Deadline) <= constants.NearingDeadlineDays {
			d.NearingDeadline = append(d.NearingDeadline, t)
		}
	}

	sort.SliceStable(d.NearingDeadline, func(i, j int) bool {
		return d.NearingDeadline[i].Deadline.Before(d.NearingDeadline[j].Deadline)
	})
}

func daysUntil(now, deadline time.Time) int {
	return int(deadline.Sub(now) / (24 * time.Hour))
}
