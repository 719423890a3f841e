package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
)

var (
	ErrSearchQueryRequired = errors.New("search query is required")
	ErrInvalidCollection   = errors.New("collection must be tasks, charities or users")
)

// SearchService runs full-text searches and rebuilds the search index.
type SearchService struct {
	engine      search.Engine
	taskRepo    repository.TaskRepository
	appRepo     repository.ApplicationRepository
	charityRepo repository.CharityRepository
	userRepo    repository.UserRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(engine search.Engine, taskRepo repository.TaskRepository, appRepo repository.ApplicationRepository, charityRepo repository.CharityRepository, userRepo repository.UserRepository) *SearchService {
	return &SearchService{
		engine:      engine,
		taskRepo:    taskRepo,
		appRepo:     appRepo,
		charityRepo: charityRepo,
		userRepo:    userRepo,
	}
}

// Search matches query across the named collections, or all of them when
// none are given.
func (s *SearchService) Search(ctx context.Context, query string, collections []string) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}

	targets, err := parseCollections(collections)
	if err != nil {
		return nil, err
	}

	hits, err := s.engine.Search(ctx, query, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return hits, nil
}

// SearchMyApplications matches query against the tasks the user applied to.
func (s *SearchService) SearchMyApplications(ctx context.Context, userID uint64, query string) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}

	taskIDs, err := s.appRepo.ListTaskIDsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied tasks: %w", err)
	}
	if len(taskIDs) == 0 {
		return []search.Hit{}, nil
	}

	ids := make([]string, len(taskIDs))
	for i, id := range taskIDs {
		ids[i] = search.DocumentID(id)
	}

	hits, err := s.engine.SearchWithin(ctx, query, search.CollectionTasks, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to search applications: %w", err)
	}
	return hits, nil
}

// ReindexStats counts the documents written by Reindex.
type ReindexStats struct {
	Tasks     int
	Charities int
	Users     int
}

// Reindex pushes every task, charity and user into the search index.
// Unlike the best-effort sync on writes, the first failure aborts.
func (s *SearchService) Reindex(ctx context.Context) (ReindexStats, error) {
	var stats ReindexStats

	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return stats, fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, t := range tasks {
		if err := s.engine.Index(ctx, search.CollectionTasks, search.DocumentID(t.ID), search.NewTaskDocument(t)); err != nil {
			return stats, fmt.Errorf("failed to index task %d: %w", t.ID, err)
		}
		stats.Tasks++
	}

	charities, err := s.charityRepo.ListAll()
	if err != nil {
		return stats, fmt.Errorf("failed to list charities: %w", err)
	}
	for _, c := range charities {
		if err := s.engine.Index(ctx, search.CollectionCharities, search.DocumentID(c.ID), search.NewCharityDocument(c)); err != nil {
			return stats, fmt.Errorf("failed to index charity %d: %w", c.ID, err)
		}
		stats.Charities++
	}

	users, err := s.userRepo.ListAll()
	if err != nil {
		return stats, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if err := s.engine.Index(ctx, search.CollectionUsers, search.DocumentID(u.ID), search.NewUserDocument(u)); err != nil {
			return stats, fmt.Errorf("failed to index user %d: %w", u.ID, err)
		}
		stats.Users++
	}

	logger.Log.Infow("search index rebuilt", "tasks", stats.Tasks, "charities", stats.Charities, "users", stats.Users)
	return stats, nil
}

func parseCollections(names []string) ([]search.Collection, error) {
	var out []search.Collection
	seen := make(map[search.Collection]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		c := search.Collection(name)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, name)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return search.AllCollections, nil
	}
	return out, nil
}
