package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/apperror"
	"task-manager/internal/models"
	"task-manager/internal/repository"
	"task-manager/pkg/logger"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Notifier receives task change events for the owning user.
type Notifier interface {
	Notify(userID string, event models.TaskEvent)
}

// NewTask is the input of Create. Empty status and priority take the
// defaults.
type NewTask struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	DueDate     *time.Time
}

// TaskService runs task operations scoped to the calling user.
type TaskService struct {
	tasks    repository.TaskRepository
	cache    repository.TaskCache
	notifier Notifier
}

type TaskOption func(*TaskService)

// WithCache enables read-through caching of single task reads.
func WithCache(cache repository.TaskCache) TaskOption {
	return func(s *TaskService) { s.cache = cache }
}

// WithNotifier publishes change events after every write.
func WithNotifier(n Notifier) TaskOption {
	return func(s *TaskService) { s.notifier = n }
}

func NewTaskService(tasks repository.TaskRepository, opts ...TaskOption) *TaskService {
	s := &TaskService{tasks: tasks}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func taskNotFound() *apperror.Error {
	return apperror.NotFound("Task not found")
}

func (s *TaskService) notify(userID, kind string, id string, t *models.Task) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, models.TaskEvent{Type: kind, TaskID: id, Task: t})
}

func (s *TaskService) Create(ctx context.Context, userID string, in NewTask) (*models.Task, error) {
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UserID:      userID,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperror.Unexpected(err)
	}

	logger.AuditLogger.Info("Task created successfully", zap.String("task_id", task.ID), zap.String("user_id", userID))
	s.notify(userID, models.EventTaskCreated, task.ID, task)
	return task, nil
}

// List returns one page of the user's tasks. Pages and limits below 1 fall
// back to the defaults. The limit has no upper bound.
func (s *TaskService) List(ctx context.Context, userID string, page, limit int) ([]models.Task, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	// Such a page starts past any store's capacity.
	if page-1 > math.MaxInt/limit {
		return []models.Task{}, nil
	}
	tasks, err := s.tasks.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	if s.cache != nil {
		// A cached task belonging to someone else is treated as a miss.
		if cached, ok := s.cache.Get(ctx, id); ok && cached.UserID == userID {
			return cached, nil
		}
	}

	task, err := s.tasks.FindByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, taskNotFound()
	}
	if err != nil {
		return nil, apperror.Unexpected(err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, task)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.tasks.Update(ctx, id, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, taskNotFound()
	}
	if err != nil {
		return nil, apperror.Unexpected(err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
	logger.AuditLogger.Info("Task updated", zap.String("task_id", id), zap.String("user_id", userID))
	s.notify(userID, models.EventTaskUpdated, id, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	err := s.tasks.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return taskNotFound()
	}
	if err != nil {
		return apperror.Unexpected(err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
	logger.AuditLogger.Info("Task deleted", zap.String("task_id", id), zap.String("user_id", userID))
	s.notify(userID, models.EventTaskDeleted, id, nil)
	return nil
}

// Search matches title case-insensitively as a substring.
func (s *TaskService) Search(ctx context.Context, userID, title string) ([]models.Task, error) {
	tasks, err := s.tasks.SearchByTitle(ctx, userID, title)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return tasks, nil
}

func (s *TaskService) Filter(ctx context.Context, userID string, status models.Status, priority models.Priority) ([]models.Task, error) {
	tasks, err := s.tasks.Filter(ctx, userID, models.TaskFilter{Status: status, Priority: priority})
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return tasks, nil
}
