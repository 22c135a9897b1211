package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/safar/go-sql-notes/internal/auth"
	"github.com/safar/go-sql-notes/internal/catalog"
	"github.com/safar/go-sql-notes/internal/config"
	"github.com/safar/go-sql-notes/internal/database"
	"github.com/safar/go-sql-notes/internal/events"
	"github.com/safar/go-sql-notes/internal/handlers"
	"github.com/safar/go-sql-notes/internal/logging"
	"github.com/safar/go-sql-notes/internal/metrics"
	"github.com/safar/go-sql-notes/internal/notes"
	"github.com/safar/go-sql-notes/internal/orders"
	"github.com/safar/go-sql-notes/internal/store"
	"github.com/safar/go-sql-notes/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(cfg.Log)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	log.Info().Msg("connected to database")

	publisher, err := events.New(cfg.Events)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Events.Backend).Msg("connect event publisher")
	}
	defer publisher.Close()

	noteRepo := store.NewNoteRepository(db)
	productRepo := store.NewProductRepository(db)
	userRepo := store.NewUserRepository(db)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	catalogSvc := catalog.NewService(productRepo, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)

	router := handlers.NewRouter(handlers.Deps{
		Orders:   orders.NewService(catalogSvc, noteRepo, publisher),
		Notes:    notes.NewService(noteRepo),
		Products: catalogSvc,
		Users:    users.NewService(userRepo, tokens),
		Tokens:   tokens,
		Metrics:  metrics.NewServerMetrics(prometheus.DefaultRegisterer),
		Ping:     db.PingContext,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(router)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
