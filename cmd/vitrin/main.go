package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vitrin-shop/vitrin/adapters/events"
	"github.com/vitrin-shop/vitrin/adapters/registry"
	"github.com/vitrin-shop/vitrin/adapters/siwe"
	"github.com/vitrin-shop/vitrin/adapters/store"
	"github.com/vitrin-shop/vitrin/internal/config"
	"github.com/vitrin-shop/vitrin/internal/logger"
	"github.com/vitrin-shop/vitrin/service"
	transport "github.com/vitrin-shop/vitrin/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init("vitrin", cfg.Debug)

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse redis URL")
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(cfg.Debug, false),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	adminRegistry := registry.LoadFile(cfg.AdminsFile)
	sessionStore := store.NewRedisSessionStore(redisClient)
	productRepo := store.NewRedisProductRepository(redisClient)

	authService := service.NewAuthService(
		sessionStore,
		siwe.Codec{},
		siwe.NewVerifier(cfg.Siwe.Domain),
		adminRegistry,
		events.NewWatermillPublisher(publisher),
		cfg.Session.TTL,
	)
	productService := service.NewProductService(productRepo, adminRegistry)

	sessions := transport.NewSessionManager(sessionStore, transport.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})
	router := transport.NewRouter(authService, productService, sessions, transport.RouterConfig{
		Origin: cfg.Server.Origin,
		Debug:  cfg.Debug,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
