package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/baristahub/baristahub-backend/database"
	application "github.com/baristahub/baristahub-backend/events/modules/applications"
	"github.com/baristahub/baristahub-backend/internal/api"
	"github.com/baristahub/baristahub-backend/internal/config"
	"github.com/baristahub/baristahub-backend/internal/kafka"
	"github.com/baristahub/baristahub-backend/internal/notify"
	"github.com/baristahub/baristahub-backend/internal/rate"
	"github.com/baristahub/baristahub-backend/restapi"
	"github.com/baristahub/baristahub-backend/restapi/modules/applications"
	"github.com/baristahub/baristahub-backend/restapi/modules/auth"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "s"},
	Short:   "Start the REST API",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg)
	},
}

func runServer(ctx context.Context, cfg *config.Config) error {
	auth.SetJWTSecret(cfg.JWTSecret)
	auth.SetJWTExpiration(cfg.JWTExpiration)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.AdminSeedFile != "" {
		seed, err := auth.LoadAdminSeed(cfg.AdminSeedFile)
		if err != nil {
			return err
		}
		if _, err := auth.SeedAdmins(ctx, store, seed); err != nil {
			return err
		}
	}

	limiters, closeRedis := openLimiters(ctx, cfg)
	defer closeRedis()

	publisher, closeKafka := openEvents(ctx, cfg)
	defer closeKafka()

	app, err := api.NewFiberApp(restapi.Deps{
		Store:     store,
		Limiters:  limiters,
		Publisher: publisher,
	}, api.Options{AllowOrigins: cfg.AllowOrigins})
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend))
	return app.Listen(":" + cfg.Port)
}

func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return database.NewMemoryStore(), nil
	}

	db, err := database.InitializeDatabase(ctx, database.Options{
		URL:            cfg.ArangoURL,
		User:           cfg.ArangoUser,
		Password:       cfg.ArangoPass,
		DatabaseName:   cfg.ArangoDB,
		MaxElapsedTime: 5 * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	return database.NewArangoStore(db), nil
}

// openLimiters returns nil limiters when Redis is not configured
func openLimiters(ctx context.Context, cfg *config.Config) (restapi.Limiters, func()) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, login rate limiting disabled")
		return restapi.Limiters{}, func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, login rate limiting disabled", zap.Error(err))
		return restapi.Limiters{}, func() {}
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Limiter fails open per request, keep it so throttling resumes when Redis comes back.
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}

	base := rate.New(rdb, "customer", rate.Config{
		MaxLoginAttempts:      cfg.LoginMaxAttempts,
		LoginCooldownDuration: cfg.LoginCooldown,
	})
	limiters := restapi.Limiters{
		Customer: base,
		Barista:  base.WithScope("barista"),
		Admin:    base.WithScope("admin"),
	}
	return limiters, func() { _ = rdb.Close() }
}

// openEvents starts the review event producer and the notification consumer,
// or falls back to a logging publisher when no brokers are configured
func openEvents(ctx context.Context, cfg *config.Config) (applications.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, review events are logged only")
		return application.LogPublisher{}, func() {}
	}

	producer := application.NewApplicationProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	err := kafka.RunEventProcessor(ctx, kafka.Config{
		Brokers:   cfg.KafkaBrokers,
		Topic:     cfg.KafkaTopic,
		GroupID:   cfg.KafkaGroupID,
		APIKey:    cfg.KafkaAPIKey,
		APISecret: cfg.KafkaAPISecret,
	}, notify.NewMailer(cfg.Email), logger)
	if err != nil {
		logger.Warn("review notifications disabled", zap.Error(err))
	}

	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Warn("close kafka writer", zap.Error(err))
		}
	}
}

func init() {
	flags := serveCmd.Flags()
	flags.String(config.PortKey, "8080", "Port to listen on")
	flags.String(config.StoreBackendKey, config.BackendArango, "Account store: arango or memory")
	flags.String(config.ArangoURLKey, "http://localhost:8529", "ArangoDB endpoint")
	flags.String(config.ArangoUserKey, "root", "ArangoDB user")
	flags.String(config.ArangoDBKey, "baristahub", "ArangoDB database name")
	flags.String(config.RedisURLKey, "", "Redis URL for login throttling (disabled when empty)")
	flags.Int(config.LoginMaxAttemptsKey, 5, "Failed logins allowed before cooldown")
	flags.Duration(config.LoginCooldownKey, 15*time.Minute, "Cooldown after too many failed logins")
	flags.Duration(config.JWTExpirationKey, 24*time.Hour, "Session lifetime")
	flags.String(config.KafkaBrokersKey, "", "Comma separated Kafka brokers (events logged only when empty)")
	flags.String(config.KafkaTopicKey, application.DefaultTopic, "Topic for application review events")
	flags.String(config.AdminSeedFileKey, "", "YAML file of admins to create at startup")
	flags.String(config.AllowOriginsKey, "http://localhost:3000,http://127.0.0.1:3000", "Comma separated CORS origins")

	rootCmd.AddCommand(serveCmd)
}
