package store

import (
	"context"
	"errors"

	"github.com/tasknest-app/tasknest/internal/models"
)

var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrNotFound        = errors.New("entity not found")
)

// CategoryPersistence is the document-store port for the categories
// collection. Listings are scoped to one owner and ordered by creation
// time descending.
type CategoryPersistence interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Category, error)

	// Insert stores a new category and returns it with the assigned
	// id and server timestamps.
	Insert(ctx context.Context, ownerID string, data models.CreateCategoryData) (*models.Category, error)

	// Patch applies the non-nil fields of data and refreshes updatedAt.
	Patch(ctx context.Context, id string, data models.UpdateCategoryData) error

	Delete(ctx context.Context, id string) error
}

// TaskPersistence is the document-store port for the tasks collection.
type TaskPersistence interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	ListByCategory(ctx context.Context, ownerID, categoryID string) ([]models.Task, error)

	// Insert stores a new task and returns it with the assigned id,
	// server timestamps and defaults applied (priority medium,
	// completed false).
	Insert(ctx context.Context, ownerID string, data models.CreateTaskData) (*models.Task, error)

	// Patch applies the non-nil fields of data and refreshes updatedAt.
	Patch(ctx context.Context, id string, data models.UpdateTaskData) error

	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}

// HintStorage persists the local session hint under a fixed key.
//
// Get enforces the hint TTL: an expired record is deleted and reported
// as absent, not just ignored.
type HintStorage interface {
	Save(hint models.SessionHint) error
	Get() (*models.SessionHint, error)
	Delete() error
}
