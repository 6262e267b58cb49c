package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gateway-server-go/internal/config"
	"github.com/codegate/gateway-server-go/internal/database"
	"github.com/codegate/gateway-server-go/internal/handler"
	"github.com/codegate/gateway-server-go/internal/middleware"
	"github.com/codegate/gateway-server-go/internal/redis"
	"github.com/codegate/gateway-server-go/internal/repository"
	"github.com/codegate/gateway-server-go/internal/service"
	"github.com/codegate/gateway-server-go/internal/util"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	cipher, err := util.NewCipher(cfg.CipherKey, cfg.CipherIV)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cipher")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	codeRepo := repository.NewAccessCodeRepository(db.DB)
	sessionStore := repository.NewSessionStore(redisClient, config.SessionTTL)

	seeder := service.NewSeeder(cipher, codeRepo, config.SeedCodeCount, config.AccessCodeLen)
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed access codes")
	}

	verificationService := service.NewVerificationService(cipher, codeRepo, sessionStore)
	chatService := service.NewChatService(cfg.ChatAPIBaseURL, cfg.ChatAPIKey)
	attemptLimiter := service.NewAttemptLimiter(
		redisClient.Client, config.VerifyRateLimit, config.VerifyRateLimitWindow,
	)

	verifyRateLimit := middleware.NewIPRateLimitMiddleware(attemptLimiter, "verify")
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	authHandler := handler.NewAuthHandler(verificationService)
	chatHandler := handler.NewChatHandler(chatService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"alive"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(verifyRateLimit.Handler).Post("/verify-code", authHandler.VerifyCode)
		r.Post("/logout", authHandler.Logout)
		r.Mount("/", chatHandler.Routes())
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
