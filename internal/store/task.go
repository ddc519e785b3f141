package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/models"
)

// TaskStore holds the current user's tasks. Derived views are pure
// functions over the collection, recomputed on every read: never stale,
// at a cost proportional to the collection size.
type TaskStore struct {
	logger      zerolog.Logger
	session     *SessionStore
	persistence TaskPersistence

	mu        sync.Mutex
	tasks     []models.Task
	loading   bool
	lastError string
}

func NewTaskStore(
	logger zerolog.Logger,
	session *SessionStore,
	persistence TaskPersistence,
) *TaskStore {
	s := &TaskStore{
		logger:      logger,
		session:     session,
		persistence: persistence,
	}
	session.SubscribeSessionEnd(s.Clear)
	return s
}

// Load fetches the owner's full task collection and replaces the local
// one. Without an active session it warns and returns ErrUnauthenticated.
func (s *TaskStore) Load(ctx context.Context) error {
	user := s.session.Identity()
	if user == nil {
		s.logger.Warn().Msg("no authenticated user to load tasks")
		return ErrUnauthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	tasks, err := s.persistence.ListByOwner(ctx, user.UID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.UID).
			Msg("failed to load tasks")
		s.setError("failed to load tasks: " + err.Error())
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", user.UID).
		Msg("loaded tasks")
	return nil
}

// LoadByCategory fetches one category's tasks and splices them into the
// local collection, replacing the previously cached tasks of that
// category only.
func (s *TaskStore) LoadByCategory(ctx context.Context, categoryID string) error {
	user := s.session.Identity()
	if user == nil {
		s.logger.Warn().Msg("no authenticated user to load tasks")
		return ErrUnauthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	tasks, err := s.persistence.ListByCategory(ctx, user.UID, categoryID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to load category tasks")
		s.setError("failed to load category tasks: " + err.Error())
		return err
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.CategoryID == nil || *t.CategoryID != categoryID {
			kept = append(kept, t)
		}
	}
	s.tasks = append(kept, tasks...)
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Int("count", len(tasks)).
		Str("category_id", categoryID).
		Msg("loaded category tasks")
	return nil
}

// Create submits a new task and prepends the stored entity to the local
// collection. Priority defaults to medium, completed to false.
func (s *TaskStore) Create(ctx context.Context, data models.CreateTaskData) (*models.Task, error) {
	user := s.session.Identity()
	if user == nil {
		s.setError("no authenticated user")
		return nil, ErrUnauthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	task, err := s.persistence.Insert(ctx, user.UID, data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		s.setError("failed to create task: " + err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append([]models.Task{*task}, s.tasks...)
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("task_id", task.ID).
		Str("title", task.Title).
		Msg("created task")
	return task, nil
}

// Update patches a task remotely and merges the patch into the local
// entity, stamping UpdatedAt locally. An id absent from the local
// collection is rejected with ErrNotFound before any remote write.
func (s *TaskStore) Update(ctx context.Context, id string, data models.UpdateTaskData) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.lastError = "task not found"
		s.mu.Unlock()
		s.logger.Error().
			Str("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	err := s.persistence.Patch(ctx, id, data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		s.setError("failed to update task: " + err.Error())
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.mergeTask(&s.tasks[i], data)
	}
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("task_id", id).
		Msg("updated task")
	return nil
}

// ToggleCompletion flips a task's completed flag. The local mutation
// happens only after the remote write confirms, trading latency for
// consistency. An unknown id fails with the collection unchanged.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.lastError = "task not found"
		s.mu.Unlock()
		s.logger.Error().
			Str("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	completed := !s.tasks[i].Completed
	s.mu.Unlock()

	err := s.persistence.SetCompleted(ctx, id, completed)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to toggle task completion")
		s.setError("failed to toggle task completion: " + err.Error())
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Completed = completed
		s.tasks[i].UpdatedAt = time.Now()
	}
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("task_id", id).
		Bool("completed", completed).
		Msg("toggled task completion")
	return nil
}

// Delete removes a task remotely and filters it out of the local
// collection. An id absent from the local collection is rejected with
// ErrNotFound.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.lastError = "task not found"
		s.mu.Unlock()
		s.logger.Error().
			Str("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	err := s.persistence.Delete(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		s.setError("failed to delete task: " + err.Error())
		return err
	}

	s.mu.Lock()
	filtered := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	s.tasks = filtered
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

// Clear empties the local collection and error state. It is safe to call
// when already empty and runs automatically when the session ends.
func (s *TaskStore) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.lastError = ""
	s.mu.Unlock()
}

func (s *TaskStore) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *TaskStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TaskStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// All returns a copy of the local collection in its current order.
func (s *TaskStore) All() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *TaskStore) ByID(id string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		task := s.tasks[i]
		return &task
	}
	return nil
}

// Pending returns the tasks not yet completed.
func (s *TaskStore) Pending() []models.Task {
	return s.filter(func(t models.Task) bool { return !t.Completed })
}

// Completed returns the finished tasks.
func (s *TaskStore) Completed() []models.Task {
	return s.filter(func(t models.Task) bool { return t.Completed })
}

func (s *TaskStore) PendingCount() int {
	return len(s.Pending())
}

func (s *TaskStore) CompletedCount() int {
	return len(s.Completed())
}

// ByCategory returns the tasks assigned to one category.
func (s *TaskStore) ByCategory(categoryID string) []models.Task {
	return s.filter(func(t models.Task) bool {
		return t.CategoryID != nil && *t.CategoryID == categoryID
	})
}

// ByPriority returns the tasks with the given priority.
func (s *TaskStore) ByPriority(priority models.Priority) []models.Task {
	return s.filter(func(t models.Task) bool { return t.Priority == priority })
}

// ChronologicalDesc returns the tasks ordered newest first by creation
// time.
func (s *TaskStore) ChronologicalDesc() []models.Task {
	tasks := s.All()
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// Overdue returns the uncompleted tasks whose due date is before now.
func (s *TaskStore) Overdue(now time.Time) []models.Task {
	return s.filter(func(t models.Task) bool {
		return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
	})
}

func (s *TaskStore) filter(keep func(models.Task) bool) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []models.Task
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// mergeTask must be called with the mutex held.
func (s *TaskStore) mergeTask(task *models.Task, data models.UpdateTaskData) {
	if data.Title != nil {
		task.Title = *data.Title
	}
	if data.Description != nil {
		task.Description = data.Description
	}
	if data.Completed != nil {
		task.Completed = *data.Completed
	}
	if data.CategoryID != nil {
		task.CategoryID = data.CategoryID
	}
	if data.Priority != nil {
		task.Priority = *data.Priority
	}
	if data.DueDate != nil {
		task.DueDate = data.DueDate
	}
	// Approximate: the server-assigned timestamp is not re-fetched.
	task.UpdatedAt = time.Now()
}

// indexOf must be called with the mutex held.
func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *TaskStore) setError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()
}
