package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pattadonj/member-auth-api/internal/config"
	"github.com/pattadonj/member-auth-api/internal/handler"
	"github.com/pattadonj/member-auth-api/internal/repository"
	"github.com/pattadonj/member-auth-api/internal/usecase"
	"github.com/pattadonj/member-auth-api/shared/auth"
	"github.com/pattadonj/member-auth-api/shared/logger"
	"github.com/pattadonj/member-auth-api/shared/mailer"
	"github.com/pattadonj/member-auth-api/shared/provider"
	"github.com/pattadonj/member-auth-api/shared/registry"
)

func main() {
	log := logger.New("development")
	cfg := config.New(&log)
	log = logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)
	accountRepo := repository.NewAccountMongoRepository(ctx, &log, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)
	mail := mailer.NewMailer(mailer.ParseConfig(&log), &log)
	googleProvider := provider.NewGoogleOAuthProvider(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)

	authUsecase := usecase.NewAuthUsecase(accountRepo, jwtAuth, mail, &log)
	verificationUsecase := usecase.NewVerificationUsecase(accountRepo)
	googleUsecase := usecase.NewGoogleAuthUsecase(accountRepo, jwtAuth, mail, &log)

	authHandler, err := handler.NewAuthHTTPHandler(
		authUsecase,
		verificationUsecase,
		googleUsecase,
		googleProvider,
		jwtAuth,
		cfg,
		&log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create auth handler")
	}

	router := chi.NewRouter()
	router.Use(handler.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	authHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	consulRegistry, err := registry.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create consul client")
	}

	serviceID := fmt.Sprintf("%s-%s", cfg.Consul.ServiceName, uuid.NewString())
	if err := consulRegistry.Register(cfg.Consul.ServiceName, serviceID, cfg.ServerHost, cfg.ServerPort, "/healthz"); err != nil {
		log.Warn().Err(err).Msg("failed to register service with consul")
	}
	defer func() {
		if err := consulRegistry.Deregister(); err != nil {
			log.Error().Err(err).Msg("failed to deregister service from consul")
		}
	}()

	go func() {
		log.Info().Str("addr", addr).Msg("auth service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
}
