package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tasknest-app/tasknest/internal/identity"
	"github.com/tasknest-app/tasknest/internal/models"
)

var (
	errFakeRemote  = errors.New("fake remote error")
	errFakeSignOut = errors.New("fake sign-out error")
)

// fakeProvider implements identity.Provider for testing.
type fakeProvider struct {
	mu           sync.Mutex
	current      *models.UserIdentity
	signInErr    error
	signOutErr   error
	observers    map[int]func(*models.UserIdentity)
	nextID       int
	signOutCalls int
}

func newFakeProvider(current *models.UserIdentity) *fakeProvider {
	return &fakeProvider{
		current:   current,
		observers: make(map[int]func(*models.UserIdentity)),
	}
}

func (p *fakeProvider) SignIn(_ context.Context, _ identity.Credential) (*models.UserIdentity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.signInErr != nil {
		return nil, p.signInErr
	}
	if p.current == nil {
		return nil, &identity.Error{Code: identity.CodeInvalidToken}
	}

	user := *p.current
	return &user, nil
}

func (p *fakeProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.signOutCalls++
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.current = nil
	return nil
}

func (p *fakeProvider) OnChange(fn func(*models.UserIdentity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	current := p.current
	p.mu.Unlock()

	// Mirrors the provider contract: observers learn the current
	// state right away.
	go fn(current)

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

func (p *fakeProvider) observerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers)
}

// fakeHints implements HintStorage with a TTL window, like the real
// hint store.
type fakeHints struct {
	mu        sync.Mutex
	hint      *models.SessionHint
	ttl       time.Duration
	saveErr   error
	deleteErr error
}

func newFakeHints() *fakeHints {
	return &fakeHints{ttl: 24 * time.Hour}
}

func (h *fakeHints) Save(hint models.SessionHint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.saveErr != nil {
		return h.saveErr
	}
	h.hint = &hint
	return nil
}

func (h *fakeHints) Get() (*models.SessionHint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hint == nil {
		return nil, nil
	}
	if time.Since(h.hint.Timestamp) >= h.ttl {
		h.hint = nil
		return nil, nil
	}
	hint := *h.hint
	return &hint, nil
}

func (h *fakeHints) Delete() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.deleteErr != nil {
		return h.deleteErr
	}
	h.hint = nil
	return nil
}

func (h *fakeHints) stored() *models.SessionHint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hint
}

// fakeCategoryPersistence implements CategoryPersistence in memory.
type fakeCategoryPersistence struct {
	mu         sync.Mutex
	categories []models.Category
	nextID     int
	listErr    error
	insertErr  error
	patchErr   error
	deleteErr  error
	patchCalls int
}

func newFakeCategoryPersistence() *fakeCategoryPersistence {
	return &fakeCategoryPersistence{}
}

func (p *fakeCategoryPersistence) ListByOwner(_ context.Context, ownerID string) ([]models.Category, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listErr != nil {
		return nil, p.listErr
	}

	var categories []models.Category
	for _, c := range p.categories {
		if c.OwnerID == ownerID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CreatedAt.After(categories[j].CreatedAt)
	})
	return categories, nil
}

func (p *fakeCategoryPersistence) Insert(_ context.Context, ownerID string, data models.CreateCategoryData) (*models.Category, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.insertErr != nil {
		return nil, p.insertErr
	}

	p.nextID++
	now := time.Now()
	category := models.Category{
		ID:        fmt.Sprintf("cat-%d", p.nextID),
		Name:      data.Name,
		Color:     data.Color,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.categories = append(p.categories, category)
	return &category, nil
}

func (p *fakeCategoryPersistence) Patch(_ context.Context, id string, data models.UpdateCategoryData) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.patchCalls++
	if p.patchErr != nil {
		return p.patchErr
	}

	for i := range p.categories {
		if p.categories[i].ID == id {
			if data.Name != nil {
				p.categories[i].Name = *data.Name
			}
			if data.Color != nil {
				p.categories[i].Color = *data.Color
			}
			p.categories[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("category not found in fake")
}

func (p *fakeCategoryPersistence) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deleteErr != nil {
		return p.deleteErr
	}

	for i := range p.categories {
		if p.categories[i].ID == id {
			p.categories = append(p.categories[:i], p.categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (p *fakeCategoryPersistence) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.categories)
}

// fakeTaskPersistence implements TaskPersistence in memory.
type fakeTaskPersistence struct {
	mu                sync.Mutex
	tasks             []models.Task
	nextID            int
	listErr           error
	insertErr         error
	patchErr          error
	deleteErr         error
	setCompletedErr   error
	setCompletedCalls int
}

func newFakeTaskPersistence() *fakeTaskPersistence {
	return &fakeTaskPersistence{}
}

func (p *fakeTaskPersistence) ListByOwner(_ context.Context, ownerID string) ([]models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listErr != nil {
		return nil, p.listErr
	}

	var tasks []models.Task
	for _, t := range p.tasks {
		if t.OwnerID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (p *fakeTaskPersistence) ListByCategory(ctx context.Context, ownerID, categoryID string) ([]models.Task, error) {
	tasks, err := p.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var filtered []models.Task
	for _, t := range tasks {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (p *fakeTaskPersistence) Insert(_ context.Context, ownerID string, data models.CreateTaskData) (*models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.insertErr != nil {
		return nil, p.insertErr
	}

	priority := data.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	p.nextID++
	now := time.Now()
	task := models.Task{
		ID:          fmt.Sprintf("task-%d", p.nextID),
		Title:       data.Title,
		Description: data.Description,
		Completed:   false,
		CategoryID:  data.CategoryID,
		OwnerID:     ownerID,
		Priority:    priority,
		DueDate:     data.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.tasks = append(p.tasks, task)
	return &task, nil
}

func (p *fakeTaskPersistence) Patch(_ context.Context, id string, data models.UpdateTaskData) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.patchErr != nil {
		return p.patchErr
	}

	for i := range p.tasks {
		if p.tasks[i].ID == id {
			if data.Title != nil {
				p.tasks[i].Title = *data.Title
			}
			if data.Completed != nil {
				p.tasks[i].Completed = *data.Completed
			}
			if data.CategoryID != nil {
				p.tasks[i].CategoryID = data.CategoryID
			}
			if data.Priority != nil {
				p.tasks[i].Priority = *data.Priority
			}
			p.tasks[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("task not found in fake")
}

func (p *fakeTaskPersistence) SetCompleted(_ context.Context, id string, completed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setCompletedCalls++
	if p.setCompletedErr != nil {
		return p.setCompletedErr
	}

	for i := range p.tasks {
		if p.tasks[i].ID == id {
			p.tasks[i].Completed = completed
			p.tasks[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("task not found in fake")
}

func (p *fakeTaskPersistence) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deleteErr != nil {
		return p.deleteErr
	}

	for i := range p.tasks {
		if p.tasks[i].ID == id {
			p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}
