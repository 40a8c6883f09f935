package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Pizajolo/nft-ticket-registration/adapters/events"
	"github.com/Pizajolo/nft-ticket-registration/adapters/store"
	"github.com/Pizajolo/nft-ticket-registration/adapters/tokenizer"
	"github.com/Pizajolo/nft-ticket-registration/config"
	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
	"github.com/Pizajolo/nft-ticket-registration/service"
	transport "github.com/Pizajolo/nft-ticket-registration/transport/http"
)

const janitorInterval = 5 * time.Minute

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	jwtTokenizer, err := tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create tokenizer")
	}

	var (
		sessionStore ports.SessionStore   = store.NewMemorySessionStore()
		publisher    ports.EventPublisher = events.NopPublisher{}
	)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse REDIS_URL")
		}
		redisClient := redis.NewClient(opts)

		sessionStore = store.NewRedisSessionStore(redisClient)

		wmPublisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = events.NewWatermillPublisher(wmPublisher)

		log.Info().Msg("using redis session store and event stream")
	}

	credStore := store.NewMemoryCredentialStore()
	if err := credStore.SeedAdmin(context.Background(), core.AdminCredential{
		ID:           uuid.New().String(),
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		Wallet:       cfg.AdminWallet,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin credential")
	}

	sessions := service.NewSessionService(sessionStore, jwtTokenizer, publisher, cfg.SessionTTL)
	challenges := service.NewChallengeService(
		store.NewMemoryChallengeStore(),
		sessions,
		service.NewTrustedDepositVerifier(),
		cfg.OrgDepositAddress,
		cfg.ChallengeTTL,
		cfg.SignMessagePurpose,
	)
	admins := service.NewAdminService(
		credStore,
		sessions,
		cfg.AdminWallet,
		cfg.ChallengeTTL,
		cfg.SignMessagePurpose+" Admin Login",
	)
	activities := service.NewActivityService(store.NewMemoryActivityStore(service.DefaultActivityCap))

	handlers := transport.NewHandlers(sessions, challenges, admins, activities, transport.Options{
		SessionCookieName: cfg.SessionCookieName,
		CSRFCookieName:    cfg.CSRFCookieName,
		SessionTTL:        cfg.SessionTTL,
		Production:        cfg.IsProduction(),
	})
	router := transport.SetupRouter(handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitorDone := sessions.StartJanitor(ctx, janitorInterval)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	<-janitorDone
}
