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

type firestoreCategories struct {
	logger zerolog.Logger
	client *firestore.Client
}

func NewFirestoreCategories(logger zerolog.Logger, client *firestore.Client) store.CategoryPersistence {
	return &firestoreCategories{
		logger: logger,
		client: client,
	}
}

func (r *firestoreCategories) ListByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	iter := r.client.Collection(categoriesCollection).
		Where(ownerField, "==", ownerID).
		OrderBy(createdAtField, firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var categories []models.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate categories: %w", err)
		}

		var category models.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category: %w", err)
		}
		category.ID = doc.Ref.ID

		categories = append(categories, category)
	}

	r.logger.Debug().
		Int("count", len(categories)).
		Str("user_id", ownerID).
		Msg("listed categories")
	return categories, nil
}

func (r *firestoreCategories) Insert(ctx context.Context, ownerID string, data models.CreateCategoryData) (*models.Category, error) {
	now := time.Now()
	category := &models.Category{
		ID:        uuid.NewString(),
		Name:      data.Name,
		Color:     data.Color,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.client.Collection(categoriesCollection).Doc(category.ID).Set(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	r.logger.Debug().
		Str("category_id", category.ID).
		Msg("inserted category")
	return category, nil
}

func (r *firestoreCategories) Patch(ctx context.Context, id string, data models.UpdateCategoryData) error {
	updates := []firestore.Update{
		{Path: updatedAtField, Value: time.Now()},
	}
	if data.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *data.Name})
	}
	if data.Color != nil {
		updates = append(updates, firestore.Update{Path: "color", Value: *data.Color})
	}

	_, err := r.client.Collection(categoriesCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to patch category: %w", err)
	}

	r.logger.Debug().
		Str("category_id", id).
		Msg("patched category")
	return nil
}

func (r *firestoreCategories) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(categoriesCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	r.logger.Debug().
		Str("category_id", id).
		Msg("deleted category")
	return nil
}
