package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/models"
)

// DataInitializer loads the user's working set when a session starts.
// Category and task loads run concurrently and both must settle before
// initialization is considered done; a failure in one does not cancel
// the other.
type DataInitializer struct {
	logger     zerolog.Logger
	categories *CategoryStore
	tasks      *TaskStore
}

func NewDataInitializer(
	logger zerolog.Logger,
	session *SessionStore,
	categories *CategoryStore,
	tasks *TaskStore,
) *DataInitializer {
	d := &DataInitializer{
		logger:     logger,
		categories: categories,
		tasks:      tasks,
	}
	session.SubscribeSessionStart(d.handleSessionStart)
	session.SubscribeSessionEnd(d.handleSessionEnd)
	return d
}

func (d *DataInitializer) handleSessionStart(user models.UserIdentity) {
	d.logger.Info().
		Str("uid", user.UID).
		Msg("user authenticated, loading data")

	err := d.RefreshUserData(context.Background())
	if err != nil {
		d.logger.Error().
			Err(err).
			Msg("failed to load user data")
		return
	}

	_, err = d.categories.EnsureDefaultCategory(context.Background())
	if err != nil {
		d.logger.Error().
			Err(err).
			Msg("failed to ensure default category")
		return
	}

	d.logger.Info().Msg("user data loaded")
}

func (d *DataInitializer) handleSessionEnd() {
	// The stores clear themselves through their own subscriptions.
	d.logger.Info().Msg("session ended, data cleared")
}

// RefreshUserData reloads both collections in parallel. It returns the
// first load error after both loads have settled.
func (d *DataInitializer) RefreshUserData(ctx context.Context) error {
	var (
		wg          sync.WaitGroup
		categoryErr error
		taskErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		categoryErr = d.categories.Load(ctx)
	}()
	go func() {
		defer wg.Done()
		taskErr = d.tasks.Load(ctx)
	}()
	wg.Wait()

	if categoryErr != nil {
		return categoryErr
	}
	return taskErr
}
