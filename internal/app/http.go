package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/tasknest-app/tasknest/internal/config"
	"github.com/tasknest-app/tasknest/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT
	v1Handler := v1.New(
		globalLogger,
		globalSessionStore,
		globalCategoryStore,
		globalTaskStore,
		globalInitializer,
		jwtCfg.Issuer,
		jwtCfg.SigningKey,
		jwtCfg.AccessTokenTTL,
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.GET("/session", v1Handler.HandleSession)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)
	authRouter.GET("/me", v1Handler.HandleAuthMiddleware, v1Handler.HandleMe)

	router.POST("/refresh", v1Handler.HandleAuthMiddleware, v1Handler.HandleRefreshData)

	categoryRouter := router.Group("/categories", v1Handler.HandleAuthMiddleware)
	categoryRouter.GET("", v1Handler.HandleGetCategories)
	categoryRouter.POST("", v1Handler.HandleCreateCategory)
	categoryRouter.POST("/default", v1Handler.HandleEnsureDefaultCategory)
	categoryRouter.PATCH("/:id", v1Handler.HandleUpdateCategory)
	categoryRouter.DELETE("/:id", v1Handler.HandleDeleteCategory)

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	taskRouter.POST("/:id/toggle", v1Handler.HandleToggleTask)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
	taskRouter.GET("/views/overdue", v1Handler.HandleOverdueTasks)
	taskRouter.GET("/views/pending", v1Handler.HandlePendingTasks)
	taskRouter.GET("/views/completed", v1Handler.HandleCompletedTasks)
}
