package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"selfcare/internal/auth"
	"selfcare/internal/config"
	"selfcare/internal/database"
	"selfcare/internal/handlers"
	"selfcare/internal/logger"
	"selfcare/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every command needs: config, logger and database.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

func (a *app) migrate() error {
	if err := database.Migrate(a.db); err != nil {
		return err
	}
	a.log.Info("database migrated")
	return nil
}

func (a *app) mailer() services.Mailer {
	if a.cfg.Email.SendGridAPIKey == "" {
		a.log.Warn("SENDGRID_API_KEY not set, emails will only be logged")
		return services.NewLogMailer(a.log.Named("mail"))
	}
	return services.NewSendGridMailer(a.cfg.Email.SendGridAPIKey, a.cfg.Email.FromEmail, a.cfg.Email.FromName)
}

func (a *app) reminderWorker() *services.ReminderWorker {
	return services.NewReminderWorker(a.db, services.NewEmailService(a.mailer()), a.log, a.cfg.Reminder)
}

func runServer(configPath string) error {
	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Database.AutoMigrate {
		if err := a.migrate(); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenManager(a.cfg.JWT.Secret, a.cfg.JWT.Expiry, a.cfg.JWT.Issuer)
	if err != nil {
		return err
	}

	emails := services.NewEmailService(a.mailer())
	h := handlers.New(handlers.Deps{
		DB:          a.db,
		Log:         a.log,
		Accounts:    services.NewAccountService(a.db, emails, tokens, a.cfg.Security.BCryptCost),
		Medications: services.NewMedicationService(a.db),
		Doctors:     services.NewDoctorService(a.db),
		Reminders:   services.NewReminderService(a.db),
		Search:      services.NewSearchService(a.db),
		Emails:      emails,
		Pagination:  a.cfg.Pagination,
	})

	gin.SetMode(a.cfg.Server.Mode)
	router, err := handlers.NewRouter(h, tokens, a.cfg.CORS.AllowedOrigins, a.cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Reminder.Enabled {
		workerDone := services.NewReminderWorker(a.db, emails, a.log, a.cfg.Reminder).Start(ctx)
		// runs before the database is closed
		defer func() {
			stop()
			<-workerDone
		}()
	}

	srv := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("address", srv.Addr), zap.String("environment", a.cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.log.Info("server stopped")
	return nil
}
