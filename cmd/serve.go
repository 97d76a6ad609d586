package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/terraconstructs/logbook/internal/auth"
	"github.com/terraconstructs/logbook/internal/db/bunx"
	"github.com/terraconstructs/logbook/internal/migrations"
	"github.com/terraconstructs/logbook/internal/repository"
	"github.com/terraconstructs/logbook/internal/server"
	"github.com/terraconstructs/logbook/internal/services/iam"
	"github.com/terraconstructs/logbook/internal/services/logbook"
	"github.com/terraconstructs/logbook/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Logbook API server",
	Long:  `Starts the HTTP server exposing the student, log and admin endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		shutdownTelemetry, err := telemetry.Init(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(sctx); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()

		dbMetrics, err := telemetry.NewDatabaseMetrics()
		if err != nil {
			return fmt.Errorf("failed to create database metrics: %w", err)
		}
		serverMetrics, err := telemetry.NewServerMetrics()
		if err != nil {
			return fmt.Errorf("failed to create server metrics: %w", err)
		}
		authMetrics, err := telemetry.NewAuthMetrics()
		if err != nil {
			return fmt.Errorf("failed to create auth metrics: %w", err)
		}

		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, bunx.Options{
			MaxOpenConns: cfg.MaxDBConnections,
			Hooks:        []bun.QueryHook{dbMetrics},
			Debug:        cfg.Debug,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to %s database", bunx.DetectDatabaseType(cfg.DatabaseURL))

		if cfg.AutoMigrate {
			group, err := migrations.Up(ctx, db)
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			if group.IsZero() {
				log.Printf("No new migrations to apply")
			} else {
				log.Printf("Applied migration group %d", group.ID)
			}
		}

		// Initialize repositories
		studentRepo := repository.NewBunStudentRepository(db)
		adminRepo := repository.NewBunAdminRepository(db)
		courseRepo := repository.NewBunCourseRepository(db)
		logRepo := repository.NewBunLogRepository(db)

		codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("failed to create token codec: %w", err)
		}

		// Initialize services
		iamService := iam.NewService(iam.Dependencies{
			Students: studentRepo,
			Admins:   adminRepo,
			Courses:  courseRepo,
			Tokens:   codec,
			Hasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		})
		gate := iam.NewGate(codec, studentRepo, adminRepo).WithMetrics(authMetrics)
		logbookService := logbook.NewService(studentRepo, logRepo, courseRepo)

		if !cfg.Auth.AllowAdminRegistration {
			log.Printf("Admin self-registration disabled; use `logbookapi admins create`")
		}

		r := server.NewRouter(server.RouterOptions{
			IAM:           iamService,
			Logbook:       logbookService,
			Gate:          gate,
			Cfg:           cfg,
			ServerMetrics: serverMetrics,
		})

		// Create HTTP server
		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			// Graceful shutdown with timeout
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
