package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	dbpkg "github.com/BruksfildServices01/clinic-server/internal/db"
	"github.com/BruksfildServices01/clinic-server/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-server/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-server/internal/middleware"
	"github.com/BruksfildServices01/clinic-server/internal/relay"
	"github.com/BruksfildServices01/clinic-server/internal/reminder"
	"github.com/BruksfildServices01/clinic-server/internal/routes"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/session"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic TCP backend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(adminTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ======================================================
// COMMANDS
// ======================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TCP server and the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo doctors, patients and the medicine catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			if err := dbpkg.Seed(db, cfg); err != nil {
				return err
			}
			fmt.Println("Seed data inserted.")
			return nil
		},
	}
}

func adminTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Print a bearer token for the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg := config.Load()
			token, err := middleware.GenerateAdminToken(cfg.AdminJWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("subject", "operator", "Token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// ======================================================
// SERVE
// ======================================================

func runServer() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	timezone.SetDefault(cfg.Timezone)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instanceID := uuid.NewString()
	logger = logger.With().Str("instance", instanceID[:8]).Logger()

	// -------- Sessions and relay --------
	table := session.NewTable()
	var sessions session.Store = table
	var cluster handlers.ClusterPresence
	var rdb *redis.Client

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()

		presence := session.NewRedisPresence(table, rdb, instanceID, logger)
		defer presence.Close()
		sessions = presence
		cluster = presence
	}

	broadcaster := relay.NewBroadcaster(sessions, logger)

	// -------- Storage and audit --------
	store, err := newContentStore(cfg)
	if err != nil {
		return err
	}

	dispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer dispatcher.Close()

	// -------- TCP server --------
	router := routes.Commands(routes.Deps{
		DB:       db,
		Config:   cfg,
		Sessions: sessions,
		Relay:    broadcaster,
		Store:    store,
		Audit:    dispatcher,
	})
	if missing := router.Missing(); len(missing) > 0 {
		return fmt.Errorf("commands without a route: %v", missing)
	}

	srv := server.New(server.Options{
		ListenAddr:            cfg.ListenAddr,
		HandlerTimeout:        cfg.HandlerTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		LargeWriteBytesPerSec: cfg.LargeWriteBytesPerSec,
		RequireLogin:          cfg.RequireLogin,
		ReplyUnknownCommands:  cfg.ReplyUnknownCommands,
	}, router, sessions, logger)

	if rdb != nil {
		bus := relay.NewRedisBus(rdb, instanceID, logger)
		broadcaster.SetRemote(bus)
		go func() {
			if err := bus.Run(ctx, broadcaster, srv); err != nil {
				logger.Error().Err(err).Msg("relay bus stopped")
			}
		}()
	}

	// -------- Reminders --------
	job := reminder.New(infraRepo.NewAppointmentGormRepository(db), broadcaster, srv, logger)
	scheduler, err := job.Start(cfg.ReminderIntervalMinutes)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	// -------- Admin API --------
	var admin *http.Server
	if addr := cfg.AdminAddr(); addr != "" {
		admin = newAdminServer(cfg, db, logger, table, cluster, srv.ConnCount, addr)
		go func() {
			logger.Info().Str("addr", addr).Msg("admin api listening")
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("admin api stopped")
				stop()
			}
		}()
	}

	serveErr := srv.ListenAndServe(ctx)

	if admin != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := admin.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("admin api shutdown")
		}
	}

	logger.Info().Msg("server stopped")
	return serveErr
}

// ======================================================
// HELPERS
// ======================================================

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func openDB() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	timezone.SetDefault(cfg.Timezone)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newContentStore(cfg *config.Config) (contentstore.Store, error) {
	if cfg.ContentStore == config.ContentStoreS3 {
		return contentstore.NewS3Store(contentstore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}), nil
	}
	return contentstore.NewFileStore(cfg.ContentDir)
}

func newAdminServer(
	cfg *config.Config,
	db *gorm.DB,
	logger zerolog.Logger,
	online handlers.OnlineUsers,
	cluster handlers.ClusterPresence,
	connCount func() int,
	addr string,
) *http.Server {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		DB:        db,
		Config:    cfg,
		Log:       logger,
		Sessions:  online,
		Cluster:   cluster,
		ConnCount: connCount,
	})

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
