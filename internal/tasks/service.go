package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/taskhive/taskhive/internal/shared"
)

// Service enforces ownership scoping for every task operation. The ownerID
// argument is always the authenticated subject id bound by the request
// guard, never client input.
type Service struct {
	repo       Repository
	cache      *StatsCache
	clock      shared.Clock
	statsGroup singleflight.Group
}

// NewService constructs a new Service. A nil clock falls back to the
// system clock.
func NewService(repo Repository, cache *StatsCache, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Service{repo: repo, cache: cache, clock: clock}
}

// Create stamps the new task with the caller's identity. Any owner field a
// client might supply is discarded before reaching this point.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateTaskRequest) (*Task, error) {
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	task := Task{
		UserID:      ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    priority,
		Tags:        normalizeTags(req.Tags),
		DueDate:     req.DueDate,
	}
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.cache.Bump(ctx, ownerID)
	return created, nil
}

// Get fetches a task within the caller's scope.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Task, error) {
	return s.repo.GetOwned(ctx, id, ownerID)
}

// Update applies a partial update within the caller's scope.
func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateTaskRequest) (*Task, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Tags != nil {
		updates["tags"] = normalizeTags(req.Tags)
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if len(updates) == 0 {
		return s.repo.GetOwned(ctx, id, ownerID)
	}
	updated, err := s.repo.UpdateOwned(ctx, id, ownerID, updates)
	if err != nil {
		return nil, err
	}
	s.cache.Bump(ctx, ownerID)
	return updated, nil
}

// Delete removes a task within the caller's scope.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return err
	}
	s.cache.Bump(ctx, ownerID)
	return nil
}

// List returns a filtered page of the caller's tasks.
func (s *Service) List(ctx context.Context, ownerID int64, req ListTasksRequest) ([]Task, int, error) {
	req.OwnerID = ownerID
	req.Tags = normalizeTags(req.Tags)
	return s.repo.ListOwned(ctx, req)
}

// Stats returns aggregate counts for the caller's tasks, served from cache
// when warm. Concurrent rebuilds for the same owner are collapsed.
func (s *Service) Stats(ctx context.Context, ownerID int64) (Stats, error) {
	result, err, _ := s.statsGroup.Do(strconv.FormatInt(ownerID, 10), func() (interface{}, error) {
		return s.cache.Fetch(ctx, ownerID, func(ctx context.Context) (Stats, error) {
			return s.repo.StatsByOwner(ctx, ownerID, s.clock.Now())
		})
	})
	if err != nil {
		return Stats{}, err
	}
	return result.(Stats), nil
}

// normalizeTags trims, lowercases and drops empty tags. Always returns a
// non-nil slice: the tags column is NOT NULL and a nil slice would encode
// as SQL NULL.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
