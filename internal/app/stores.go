package app

import (
	"github.com/tasknest-app/tasknest/internal/config"
	"github.com/tasknest-app/tasknest/internal/hintstore"
	"github.com/tasknest-app/tasknest/internal/identity"
	"github.com/tasknest-app/tasknest/internal/remote"
	"github.com/tasknest-app/tasknest/internal/store"
)

var (
	globalHintStore     *hintstore.Store
	globalSessionStore  *store.SessionStore
	globalCategoryStore *store.CategoryStore
	globalTaskStore     *store.TaskStore
	globalInitializer   *store.DataInitializer
)

func MustOpenHintStore() {
	cfg := config.Global().Session

	var err error
	globalHintStore, err = hintstore.Open(globalLogger, cfg.HintDBPath, cfg.HintTTL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", cfg.HintDBPath).
			Msg("failed to open hint store")
		panic(err)
	}
	globalLogger.Info().
		Str("path", cfg.HintDBPath).
		Msg("opened hint store")
}

func CloseHintStore() {
	err := globalHintStore.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close hint store")
		return
	}
	globalLogger.Info().Msg("closed hint store")
}

func MustBuildStores() {
	cfg := config.Global().Session

	provider := identity.NewFirebaseProvider(globalLogger, globalAuthClient)

	globalSessionStore = store.NewSessionStore(globalLogger, provider, globalHintStore)
	globalCategoryStore = store.NewCategoryStore(
		globalLogger,
		globalSessionStore,
		remote.NewFirestoreCategories(globalLogger, globalFirestoreClient),
		cfg.DefaultCategoryName,
		cfg.DefaultCategoryColor,
	)
	globalTaskStore = store.NewTaskStore(
		globalLogger,
		globalSessionStore,
		remote.NewFirestoreTasks(globalLogger, globalFirestoreClient),
	)
	globalInitializer = store.NewDataInitializer(
		globalLogger,
		globalSessionStore,
		globalCategoryStore,
		globalTaskStore,
	)

	globalLogger.Info().Msg("built stores")
}
