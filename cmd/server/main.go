package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/skillanthropy/skillanthropy-api/internal/config"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"github.com/skillanthropy/skillanthropy-api/internal/middleware"
	"github.com/skillanthropy/skillanthropy-api/internal/router"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

func main() {
	// A missing .env is fine; the environment may be set by the runtime
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Init(cfg.LogFile, cfg.GinMode == gin.DebugMode); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Log.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		logger.Log.Fatalw("failed to run migrations", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORSOrigins))

	store, err := redisStore.NewStore(
		10,    // pool size
		"tcp", // network type
		cfg.RedisAddr(),
		"", // username (empty for default user)
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Log.Fatalw("failed to create redis session store", "error", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	engine, closeSearch, err := search.NewEngineFromConfig(cfg)
	if err != nil {
		logger.Log.Fatalw("failed to create search engine", "error", err)
	}
	defer func() { _ = closeSearch() }()
	if !cfg.SearchEnabled() {
		logger.Log.Info("search disabled: ELASTIC_URL not set")
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	router.Register(r, router.NewHandlers(router.Dependencies{
		DB:                       database.GetDB(),
		Search:                   engine,
		AI:                       aiService,
		EnforceVolunteerCapacity: cfg.EnforceVolunteerCapacity,
	}))

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Log.Infow("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorw("server forced to shut down", "error", err)
	}
}
