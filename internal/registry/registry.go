// Package registry owns the in-memory ordered task collection and its next id
// counter.
//
// Every operation that changes the collection persists it once before returning. A
// failed persist is returned wrapped in model.ErrStorageWrite but the in-memory change
// is kept, memory is always the most current state.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Persister persists and loads the task collection.
type Persister interface {
	Save(ctx context.Context, tasks []model.Task, counter int64) error
	Load(ctx context.Context) (codec.LoadResult, error)
}

// RegistryConfig is the configuration for the task registry.
type RegistryConfig struct {
	Persister Persister
	Logger    log.Logger
	// TimeNow is used to set the creation time of new tasks, defaults to time.Now.
	TimeNow func() time.Time
}

func (c *RegistryConfig) defaults() error {
	if c.Persister == nil {
		return fmt.Errorf("persister is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "registry.Registry"})
	return nil
}

// Registry is the authoritative task collection.
type Registry struct {
	persister Persister
	logger    log.Logger
	timeNow   func() time.Time

	mu      sync.Mutex
	tasks   []model.Task
	counter int64
}

// NewRegistry returns a new empty registry, use Load to fill it from the store.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Registry{
		persister: cfg.Persister,
		logger:    cfg.Logger,
		timeNow:   cfg.TimeNow,
		tasks:     []model.Task{},
		counter:   1,
	}, nil
}

// Load replaces the registry state with the persisted one.
//
// When the persisted data is corrupt the registry is reset to an empty collection and
// the model.ErrStorageCorrupt error is returned so the caller can warn about it. A
// failed legacy format upgrade returns model.ErrStorageWrite with the data loaded.
func (r *Registry) Load(ctx context.Context) (codec.LoadResult, error) {
	res, err := r.persister.Load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = uniqueIDs(res.Tasks)
	r.counter = max(res.Counter, model.NextID(r.tasks))
	r.logger.Debugf("Loaded %d tasks, next id %d", len(r.tasks), r.counter)

	if err != nil {
		return res, fmt.Errorf("could not load tasks: %w", err)
	}

	return res, nil
}

// Add creates a new task at the end of the collection. Empty text fails with
// model.ErrValidation without changing anything.
func (r *Registry) Add(ctx context.Context, text string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, err := model.NewTask(r.counter, text, r.timeNow())
	if err != nil {
		return model.Task{}, err
	}

	r.counter++
	r.tasks = append(r.tasks, task)
	r.logger.Debugf("Added task %d", task.ID)

	return task, r.persist(ctx)
}

// Toggle flips the completion state of a task. Unknown ids are ignored.
func (r *Registry) Toggle(ctx context.Context, id int64) (model.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		r.logger.Debugf("Task %d not found, ignoring toggle", id)
		return model.Task{}, false, nil
	}

	r.tasks[i].Completed = !r.tasks[i].Completed
	r.logger.Debugf("Toggled task %d to completed=%t", id, r.tasks[i].Completed)

	return r.tasks[i], true, r.persist(ctx)
}

// Delete removes a task. Unknown ids are ignored.
func (r *Registry) Delete(ctx context.Context, id int64) (model.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		r.logger.Debugf("Task %d not found, ignoring delete", id)
		return model.Task{}, false, nil
	}

	task := r.tasks[i]
	r.tasks = slices.Delete(r.tasks, i, i+1)
	r.logger.Debugf("Deleted task %d", id)

	return task, true, r.persist(ctx)
}

// ClearAll removes all the tasks. The counter is kept so ids are never reused.
func (r *Registry) ClearAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.tasks)
	r.tasks = []model.Task{}
	r.logger.Debugf("Cleared %d tasks", n)

	return n, r.persist(ctx)
}

// ReplaceAll discards the current tasks and installs the received ones, the counter is
// recalculated from them. Duplicated or non positive ids are renumbered after the
// highest id.
func (r *Registry) ReplaceAll(ctx context.Context, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = uniqueIDs(tasks)
	r.counter = model.NextID(r.tasks)
	r.logger.Debugf("Replaced collection with %d tasks", len(r.tasks))

	return r.persist(ctx)
}

// MergeAppend appends the received tasks renumbering them after the current highest
// id, keeping their relative order. The collection is persisted once for the batch.
func (r *Registry) MergeAppend(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := model.MaxID(r.tasks)
	merged := make([]model.Task, 0, len(tasks))
	for i, t := range tasks {
		t.ID = base + int64(i) + 1
		merged = append(merged, t)
	}

	r.tasks = append(r.tasks, merged...)
	r.counter = max(r.counter, model.NextID(r.tasks))
	r.logger.Debugf("Merged %d tasks", len(merged))

	return merged, r.persist(ctx)
}

// Tasks returns a copy of the tasks in display order.
func (r *Registry) Tasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.tasks)
}

// Get returns a task by id.
func (r *Registry) Get(id int64) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}

	return r.tasks[i], nil
}

// Counter returns the id the next added task will get.
func (r *Registry) Counter() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counter
}

// Stats returns the completion stats of the collection.
func (r *Registry) Stats() model.TaskStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return model.StatsOf(r.tasks)
}

func (r *Registry) index(id int64) int {
	return slices.IndexFunc(r.tasks, func(t model.Task) bool { return t.ID == id })
}

func (r *Registry) persist(ctx context.Context) error {
	err := r.persister.Save(ctx, r.tasks, r.counter)
	if err != nil {
		r.logger.Warningf("Could not persist tasks, keeping in-memory state: %s", err)
		return fmt.Errorf("could not persist tasks: %w", err)
	}

	return nil
}

// uniqueIDs returns a copy of the tasks where every id is positive and unique. The
// first task with an id keeps it, the rest get new ids after the highest one.
func uniqueIDs(tasks []model.Task) []model.Task {
	res := make([]model.Task, 0, len(tasks))
	next := model.NextID(tasks)
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if t.ID <= 0 || seen[t.ID] {
			t.ID = next
			next++
		}
		seen[t.ID] = true
		res = append(res, t)
	}

	return res
}
