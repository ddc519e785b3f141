package remote

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"github.com/tasknest-app/tasknest/internal/models"
	"github.com/tasknest-app/tasknest/internal/store"
)

type firestoreTasks struct {
	logger zerolog.Logger
	client *firestore.Client
}

func NewFirestoreTasks(logger zerolog.Logger, client *firestore.Client) store.TaskPersistence {
	return &firestoreTasks{
		logger: logger,
		client: client,
	}
}

func (r *firestoreTasks) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := r.client.Collection(tasksCollection).
		Where(ownerField, "==", ownerID).
		OrderBy(createdAtField, firestore.Desc)
	return r.list(ctx, query.Documents(ctx))
}

func (r *firestoreTasks) ListByCategory(ctx context.Context, ownerID, categoryID string) ([]models.Task, error) {
	query := r.client.Collection(tasksCollection).
		Where(ownerField, "==", ownerID).
		Where(categoryField, "==", categoryID).
		OrderBy(createdAtField, firestore.Desc)
	return r.list(ctx, query.Documents(ctx))
}

func (r *firestoreTasks) list(ctx context.Context, iter *firestore.DocumentIterator) ([]models.Task, error) {
	defer iter.Stop()

	var tasks []models.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate tasks: %w", err)
		}

		var task models.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task: %w", err)
		}
		task.ID = doc.Ref.ID

		tasks = append(tasks, task)
	}

	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func (r *firestoreTasks) Insert(ctx context.Context, ownerID string, data models.CreateTaskData) (*models.Task, error) {
	priority := data.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.NewString(),
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

	_, err := r.client.Collection(tasksCollection).Doc(task.ID).Set(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return task, nil
}

func (r *firestoreTasks) Patch(ctx context.Context, id string, data models.UpdateTaskData) error {
	updates := []firestore.Update{
		{Path: updatedAtField, Value: time.Now()},
	}
	if data.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *data.Title})
	}
	if data.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *data.Description})
	}
	if data.Completed != nil {
		updates = append(updates, firestore.Update{Path: "completed", Value: *data.Completed})
	}
	if data.CategoryID != nil {
		updates = append(updates, firestore.Update{Path: categoryField, Value: *data.CategoryID})
	}
	if data.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*data.Priority)})
	}
	if data.DueDate != nil {
		updates = append(updates, firestore.Update{Path: "dueDate", Value: *data.DueDate})
	}

	_, err := r.client.Collection(tasksCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to patch task: %w", err)
	}

	r.logger.Debug().
		Str("task_id", id).
		Msg("patched task")
	return nil
}

func (r *firestoreTasks) SetCompleted(ctx context.Context, id string, completed bool) error {
	_, err := r.client.Collection(tasksCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "completed", Value: completed},
		{Path: updatedAtField, Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to set task completion: %w", err)
	}

	r.logger.Debug().
		Str("task_id", id).
		Bool("completed", completed).
		Msg("set task completion")
	return nil
}

func (r *firestoreTasks) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(tasksCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	r.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}
