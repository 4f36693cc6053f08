package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/models"
)

// MemoryStore keeps users and tasks in process memory. It backs local runs
// with STORE_DRIVER=memory and the service and HTTP tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
	seq   int64
	order map[string]int64
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
		order: make(map[string]int64),
		now:   time.Now,
	}
}

// Users returns the store's user repository view.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Tasks returns the store's task repository view.
func (s *MemoryStore) Tasks() TaskRepository { return memoryTasks{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	now := r.s.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r memoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

type memoryTasks struct{ s *MemoryStore }

func (r memoryTasks) Create(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.seq++
	r.s.order[t.ID] = r.s.seq
	r.s.tasks[t.ID] = *t
	return nil
}

// owned returns the user's tasks matching keep in insertion order. Callers
// hold the read lock.
func (r memoryTasks) owned(userID string, keep func(models.Task) bool) []models.Task {
	out := []models.Task{}
	for _, t := range r.s.tasks {
		if t.UserID == userID && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.order[out[i].ID] < r.s.order[out[j].ID] })
	return out
}

func (r memoryTasks) List(_ context.Context, userID string, offset, limit int) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.owned(userID, func(models.Task) bool { return true })
	if offset >= len(all) {
		return []models.Task{}, nil
	}
	end := offset + limit
	if end > len(all) || end < offset {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memoryTasks) FindByID(_ context.Context, id, userID string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r memoryTasks) Update(_ context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	patch.Apply(&t)
	t.UpdatedAt = r.s.now().UTC()
	r.s.tasks[id] = t
	return &t, nil
}

func (r memoryTasks) Delete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(r.s.tasks, id)
	delete(r.s.order, id)
	return nil
}

func (r memoryTasks) SearchByTitle(_ context.Context, userID, title string) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(title)
	return r.owned(userID, func(t models.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), needle)
	}), nil
}

func (r memoryTasks) Filter(_ context.Context, userID string, filter models.TaskFilter) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.owned(userID, filter.Matches), nil
}
