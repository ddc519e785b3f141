package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/models"
)

const (
	DefaultCategoryName  = "My Tasks"
	DefaultCategoryColor = "#6b7280"
)

// CategoryStore holds the current user's categories. The local collection
// is the full working set for the session: Load replaces it wholesale and
// logout wipes it.
type CategoryStore struct {
	logger      zerolog.Logger
	session     *SessionStore
	persistence CategoryPersistence

	defaultName  string
	defaultColor string

	mu         sync.Mutex
	categories []models.Category
	loading    bool
	lastError  string
}

func NewCategoryStore(
	logger zerolog.Logger,
	session *SessionStore,
	persistence CategoryPersistence,
	defaultName string,
	defaultColor string,
) *CategoryStore {
	if defaultName == "" {
		defaultName = DefaultCategoryName
	}
	if defaultColor == "" {
		defaultColor = DefaultCategoryColor
	}

	s := &CategoryStore{
		logger:       logger,
		session:      session,
		persistence:  persistence,
		defaultName:  defaultName,
		defaultColor: defaultColor,
	}
	session.SubscribeSessionEnd(s.Clear)
	return s
}

// Load fetches the owner's full category collection and replaces the
// local one. Without an active session it warns and returns
// ErrUnauthenticated.
func (s *CategoryStore) Load(ctx context.Context) error {
	user := s.session.Identity()
	if user == nil {
		s.logger.Warn().Msg("no authenticated user to load categories")
		return ErrUnauthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	categories, err := s.persistence.ListByOwner(ctx, user.UID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.UID).
			Msg("failed to load categories")
		s.setError("failed to load categories: " + err.Error())
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Int("count", len(categories)).
		Str("user_id", user.UID).
		Msg("loaded categories")
	return nil
}

// Create submits a new category and prepends the stored entity to the
// local collection.
func (s *CategoryStore) Create(ctx context.Context, data models.CreateCategoryData) (*models.Category, error) {
	user := s.session.Identity()
	if user == nil {
		s.setError("no authenticated user")
		return nil, ErrUnauthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	category, err := s.persistence.Insert(ctx, user.UID, data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create category")
		s.setError("failed to create category: " + err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.categories = append([]models.Category{*category}, s.categories...)
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("category_id", category.ID).
		Str("name", category.Name).
		Msg("created category")
	return category, nil
}

// Update patches a category remotely and merges the patch into the local
// entity. An id absent from the local collection is rejected with
// ErrNotFound before any remote write.
func (s *CategoryStore) Update(ctx context.Context, id string, data models.UpdateCategoryData) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.lastError = "category not found"
		s.mu.Unlock()
		s.logger.Error().
			Str("category_id", id).
			Msg("category not found")
		return ErrNotFound
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	err := s.persistence.Patch(ctx, id, data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", id).
			Msg("failed to update category")
		s.setError("failed to update category: " + err.Error())
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		if data.Name != nil {
			s.categories[i].Name = *data.Name
		}
		if data.Color != nil {
			s.categories[i].Color = *data.Color
		}
		// Approximate: the server-assigned timestamp is not re-fetched.
		s.categories[i].UpdatedAt = time.Now()
	}
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("category_id", id).
		Msg("updated category")
	return nil
}

// Delete removes a category remotely and filters it out of the local
// collection. An id absent from the local collection is rejected with
// ErrNotFound.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.lastError = "category not found"
		s.mu.Unlock()
		s.logger.Error().
			Str("category_id", id).
			Msg("category not found")
		return ErrNotFound
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	err := s.persistence.Delete(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", id).
			Msg("failed to delete category")
		s.setError("failed to delete category: " + err.Error())
		return err
	}

	s.mu.Lock()
	filtered := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	s.categories = filtered
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info().
		Str("category_id", id).
		Msg("deleted category")
	return nil
}

// EnsureDefaultCategory returns the id of the category with the
// distinguished default name, falling back to the first existing
// category, and creating the default one only when the collection is
// empty. It is idempotent.
func (s *CategoryStore) EnsureDefaultCategory(ctx context.Context) (string, error) {
	s.mu.Lock()
	for _, c := range s.categories {
		if c.Name == s.defaultName {
			id := c.ID
			s.mu.Unlock()
			s.logger.Debug().
				Str("category_id", id).
				Msg("default category already exists")
			return id, nil
		}
	}
	if len(s.categories) > 0 {
		id := s.categories[0].ID
		s.mu.Unlock()
		s.logger.Debug().
			Str("category_id", id).
			Msg("using first category as default")
		return id, nil
	}
	s.mu.Unlock()

	category, err := s.Create(ctx, models.CreateCategoryData{
		Name:  s.defaultName,
		Color: s.defaultColor,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Msg("created default category")
	return category.ID, nil
}

// Clear empties the local collection and error state. It is safe to call
// when already empty and runs automatically when the session ends.
func (s *CategoryStore) Clear() {
	s.mu.Lock()
	s.categories = nil
	s.lastError = ""
	s.mu.Unlock()
}

func (s *CategoryStore) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *CategoryStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *CategoryStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *CategoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

// All returns a copy of the local collection in its current order.
func (s *CategoryStore) All() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)
	return categories
}

func (s *CategoryStore) ByID(id string) *models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		category := s.categories[i]
		return &category
	}
	return nil
}

// SortedByName returns the collection ordered alphabetically.
func (s *CategoryStore) SortedByName() []models.Category {
	categories := s.All()
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories
}

// indexOf must be called with the mutex held.
func (s *CategoryStore) indexOf(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *CategoryStore) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *CategoryStore) setError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()
}
