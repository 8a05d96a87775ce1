package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traffic-report/be/config"
	"traffic-report/be/database"
	"traffic-report/be/handlers"
	"traffic-report/be/logger"
	"traffic-report/be/metrics"
	"traffic-report/be/rabbitmq"
	"traffic-report/be/routes"
	"traffic-report/be/services"
	"traffic-report/be/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "traffic-report"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Traffic violation report backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API and the analysis result consumer",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
	)

	return root
}

// bootstrap loads .env and configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg := config.Load()
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	return cfg, log, nil
}

func migrate() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return err
	}
	if err := database.Migrate(db); err != nil {
		log.Error("Failed to migrate database", zap.Error(err))
		return err
	}

	log.Info("Database migrated", zap.String("driver", cfg.Database.Driver), zap.String("database", cfg.Database.DBName))
	return nil
}

func serve(parent context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return err
	}

	box, err := utils.NewSecretBox(cfg.Crypto.PortalSecretKey)
	if err != nil {
		log.Error("PORTAL_SECRET_KEY is not usable", zap.Error(err))
		return err
	}

	reportService := services.NewReportService(db)
	incidentService := services.NewIncidentService(db)
	userService := services.NewUserService(db, box)
	deviceService := services.NewDeviceService(db)
	chatbotService := services.NewChatbotService(db)

	router := routes.Setup(routes.Handlers{
		Reports:    handlers.NewReportHandler(reportService, log),
		Violations: handlers.NewViolationHandler(incidentService, log),
		Chatbot:    handlers.NewChatbotHandler(chatbotService, log),
		Users:      handlers.NewUserHandler(userService, log),
		Devices:    handlers.NewDeviceHandler(deviceService, log),
	}, log)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumerDone := make(chan struct{})
	if cfg.RabbitMQ.Enabled {
		go func() {
			defer close(consumerDone)
			rabbitmq.Consume(ctx, cfg.RabbitMQ, log, services.NewAnalysisCallback(incidentService, log))
		}()
		log.Info("Analysis result consumer started", zap.String("queue", cfg.RabbitMQ.Queue))
	} else {
		close(consumerDone)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Failed to start server", zap.Error(err))
			stop()
			<-consumerDone
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown incomplete", zap.Error(err))
	}
	<-consumerDone

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
