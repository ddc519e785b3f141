package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tasknest-app/tasknest/internal/store"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleSession(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleRefreshData(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetCategories(c *gin.Context)
	HandleCreateCategory(c *gin.Context)
	HandleEnsureDefaultCategory(c *gin.Context)
	HandleUpdateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleOverdueTasks(c *gin.Context)
	HandlePendingTasks(c *gin.Context)
	HandleCompletedTasks(c *gin.Context)
}

type handlerImpl struct {
	logger      zerolog.Logger
	session     *store.SessionStore
	categories  *store.CategoryStore
	tasks       *store.TaskStore
	initializer *store.DataInitializer

	jwtIssuer         string
	jwtSigningKey     []byte
	jwtAccessTokenTTL time.Duration
}

func New(
	logger zerolog.Logger,
	sessionStore *store.SessionStore,
	categoryStore *store.CategoryStore,
	taskStore *store.TaskStore,
	initializer *store.DataInitializer,
	jwtIssuer string,
	jwtSigningKey string,
	jwtAccessTokenTTL time.Duration,
) Handler {
	return &handlerImpl{
		logger:            logger,
		session:           sessionStore,
		categories:        categoryStore,
		tasks:             taskStore,
		initializer:       initializer,
		jwtIssuer:         jwtIssuer,
		jwtSigningKey:     []byte(jwtSigningKey),
		jwtAccessTokenTTL: jwtAccessTokenTTL,
	}
}
