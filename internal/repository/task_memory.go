package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cuctask_bot/internal/domain"
)

// MemoryTaskRepository keeps tasks in process memory. Ids keep growing
// after deletes, matching the Postgres sequence.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]*domain.Task
	now    func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		nextID: 1,
		tasks:  make(map[int64]*domain.Task),
		now:    time.Now,
	}
}

func (r *MemoryTaskRepository) Create(_ context.Context, t *domain.Task) error {
	if strings.TrimSpace(t.Content) == "" {
		return domain.ErrEmptyContent
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	t.CreatedAt = r.now()
	r.nextID++
	r.tasks[t.ID] = t.Clone()
	return nil
}

func (r *MemoryTaskRepository) FindAll(_ context.Context) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		res = append(res, t.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	p.Apply(t)
	return t.Clone(), nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) Ping(context.Context) error {
	return nil
}
