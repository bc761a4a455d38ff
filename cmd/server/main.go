package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notekeeper-server/internal/config"
	"notekeeper-server/internal/handler"
	"notekeeper-server/internal/middleware"
	"notekeeper-server/internal/repository"
	"notekeeper-server/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	// Fail fast if the store is unreachable.
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		cancel()
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	cancel()

	db := client.Database(cfg.Database.Name)

	userRepo := repository.NewUserRepository(db)
	activeRepo := repository.NewNoteRepository(db, repository.CollectionActive)
	archivedRepo := repository.NewNoteRepository(db, repository.CollectionArchived)
	trashedRepo := repository.NewNoteRepository(db, repository.CollectionTrashed)

	idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		cancel()
		logger.Fatal("failed to ensure user indexes", zap.Error(err))
	}
	cancel()

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(userRepo)
	noteService := service.NewNoteService(activeRepo, archivedRepo, trashedRepo, logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	noteHandler := handler.NewNoteHandler(noteService)

	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware(logger))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes", noteHandler.ListActive).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/favorites", noteHandler.ListFavorites).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/archived", noteHandler.ListArchived).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/trashed", noteHandler.ListTrashed).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notes/batch/archive", noteHandler.ArchiveMany).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/batch/trash", noteHandler.TrashMany).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/batch/restore", noteHandler.RestoreMany).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/batch/destroy", noteHandler.DestroyMany).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/batch/unfavorite", noteHandler.UnfavoriteMany).Methods("POST", "OPTIONS")

	protected.HandleFunc("/notes/archived/{id}/trash", noteHandler.TrashArchived).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/trashed/{id}", noteHandler.Destroy).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Trash).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notes/{id}/archive", noteHandler.Archive).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/unarchive", noteHandler.Unarchive).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/restore", noteHandler.Restore).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/favorite", noteHandler.ToggleFavorite).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting Notekeeper API server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("database", cfg.Database.Name),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Env == "development" {
		return zap.NewDevelopment()
	}

	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.Logging.Level); err == nil {
		zcfg.Level = lvl
	}
	return zcfg.Build()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notekeeper-server"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Notekeeper API","version":"1.0.0"}`))
}
